package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// LogLevel represents a logging level
type LogLevel string

const (
	DEBUG LogLevel = "DEBUG"
	INFO  LogLevel = "INFO"
	WARN  LogLevel = "WARN"
	ERROR LogLevel = "ERROR"
)

// LoggerManager writes log entries to a file and mirrors them to stdout
type LoggerManager struct {
	file   *os.File
	logger *log.Logger
}

// NewLoggerManager creates a new LoggerManager writing to logFilePath
func NewLoggerManager(logFilePath string) (*LoggerManager, error) {
	logDir := filepath.Dir(logFilePath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	return &LoggerManager{
		file:   file,
		logger: log.New(file, "", 0),
	}, nil
}

// Close closes the log file
func (l *LoggerManager) Close() error {
	return l.file.Close()
}

func (l *LoggerManager) logWithLevel(level LogLevel, format string, args ...interface{}) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	logEntry := fmt.Sprintf("[%s] %s: %s", timestamp, level, message)

	l.logger.Println(logEntry)

	// Mirror to console
	fmt.Println(logEntry)
}

// Debug writes a debug message
func (l *LoggerManager) Debug(format string, args ...interface{}) {
	l.logWithLevel(DEBUG, format, args...)
}

// Info writes an informational message
func (l *LoggerManager) Info(format string, args ...interface{}) {
	l.logWithLevel(INFO, format, args...)
}

// Warn writes a warning message
func (l *LoggerManager) Warn(format string, args ...interface{}) {
	l.logWithLevel(WARN, format, args...)
}

// Error writes an error message
func (l *LoggerManager) Error(format string, args ...interface{}) {
	l.logWithLevel(ERROR, format, args...)
}

// LogError writes an error with surrounding context, ignoring nil errors
func (l *LoggerManager) LogError(err error, context string) {
	if err != nil {
		l.Error("%s: %v", context, err)
	}
}
