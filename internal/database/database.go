package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"

	"katana/internal/bench"
	"katana/internal/logger"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS benchmark_results (
	id INT AUTO_INCREMENT PRIMARY KEY,
	game_id VARCHAR(64) NOT NULL,
	run_id INT NOT NULL,
	run_timestamp VARCHAR(32) NOT NULL,
	duration DOUBLE,
	avg_fps DOUBLE,
	min_fps DOUBLE,
	max_fps DOUBLE,
	screenshot_path VARCHAR(255),
	screenshot LONGBLOB,
	raw_data LONGTEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_run (game_id, run_id, run_timestamp)
)`

// DatabaseManager stores benchmark results in MySQL. Screenshot blobs are
// attached asynchronously so the run loop is not blocked by uploads.
type DatabaseManager struct {
	db     *sql.DB
	logger *logger.LoggerManager
	wg     sync.WaitGroup
}

// Connect opens the MySQL connection, verifies it and ensures the results
// table exists
func Connect(dsn string, loggerManager *logger.LoggerManager) (*DatabaseManager, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error pinging database: %v", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating results table: %v", err)
	}
	loggerManager.Info("✅ Connected to results database")
	return &DatabaseManager{db: db, logger: loggerManager}, nil
}

// SaveResult inserts a benchmark result row and schedules the screenshot
// upload
func (m *DatabaseManager) SaveResult(result *bench.Result) error {
	rawData, err := json.Marshal(result.RawData)
	if err != nil {
		return fmt.Errorf("error encoding raw data: %v", err)
	}

	insertSQL := `INSERT INTO benchmark_results
		(game_id, run_id, run_timestamp, duration, avg_fps, min_fps, max_fps, screenshot_path, raw_data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := m.db.Exec(insertSQL,
		result.GameID, result.RunID, result.Timestamp, result.Duration,
		result.AvgFPS, result.MinFPS, result.MaxFPS, result.ScreenshotPath, string(rawData))
	if err != nil {
		return fmt.Errorf("error inserting result: %v", err)
	}

	rowID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading inserted row id: %v", err)
	}
	m.logger.Info("✅ Benchmark result stored with ID: %d", rowID)

	if result.ScreenshotPath != "" {
		m.wg.Add(1)
		go func(id int64, path string) {
			defer m.wg.Done()
			if err := m.attachScreenshot(id, path); err != nil {
				m.logger.LogError(err, "Failed to attach screenshot to result row")
			}
		}(rowID, result.ScreenshotPath)
	}

	return nil
}

// attachScreenshot uploads the screenshot file into the result row
func (m *DatabaseManager) attachScreenshot(rowID int64, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading screenshot %s: %v", path, err)
	}
	_, err = m.db.Exec(`UPDATE benchmark_results SET screenshot = ? WHERE id = ?`, data, rowID)
	if err != nil {
		return fmt.Errorf("error storing screenshot blob: %v", err)
	}
	m.logger.Info("📸 Screenshot attached to result row %d (%d bytes)", rowID, len(data))
	return nil
}

// WaitForAsyncOperations blocks until all pending screenshot uploads finish
func (m *DatabaseManager) WaitForAsyncOperations() {
	m.wg.Wait()
}

// Close flushes pending uploads and closes the connection
func (m *DatabaseManager) Close() error {
	m.WaitForAsyncOperations()
	return m.db.Close()
}
