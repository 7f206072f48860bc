package preset

import (
	"fmt"
	"io"
	"os"
	"time"
)

// BackupFile copies path to a timestamped sibling and returns the backup
// path
func BackupFile(path string) (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	backupPath := fmt.Sprintf("%s.backup_%s", path, timestamp)
	if err := copyFile(path, backupPath); err != nil {
		return "", fmt.Errorf("failed to backup %s: %v", path, err)
	}
	return backupPath, nil
}

// RestoreFile overwrites originalPath with the contents of backupPath
func RestoreFile(backupPath, originalPath string) error {
	if _, err := os.Stat(backupPath); err != nil {
		return fmt.Errorf("backup file not found: %s", backupPath)
	}
	if err := copyFile(backupPath, originalPath); err != nil {
		return fmt.Errorf("failed to restore backup %s: %v", backupPath, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
