package bench

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Result is the record produced by a single benchmark run. It is created
// once, saved, and never mutated afterwards.
type Result struct {
	GameID         string                 `json:"game_id"`
	RunID          int                    `json:"run_id"`
	Timestamp      string                 `json:"timestamp"`
	Duration       float64                `json:"duration"`
	AvgFPS         float64                `json:"avg_fps,omitempty"`
	MinFPS         float64                `json:"min_fps,omitempty"`
	MaxFPS         float64                `json:"max_fps,omitempty"`
	ScreenshotPath string                 `json:"screenshot_path,omitempty"`
	RawData        map[string]interface{} `json:"raw_data"`
}

// NewResult creates a result container stamped with the current time
func NewResult(gameID string, runID int) *Result {
	return &Result{
		GameID:    gameID,
		RunID:     runID,
		Timestamp: time.Now().Format("20060102_150405"),
		RawData:   make(map[string]interface{}),
	}
}

// Filename returns the canonical result file name. The timestamp keeps
// (game, run, timestamp) unique across series.
func (r *Result) Filename() string {
	return fmt.Sprintf("%s_run%d_%s.json", r.GameID, r.RunID, r.Timestamp)
}

// Save writes the result as indented JSON into outputDir and returns the
// file path
func (r *Result) Save(outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %v", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %v", err)
	}

	path := filepath.Join(outputDir, r.Filename())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write result file: %v", err)
	}
	return path, nil
}

// LoadResult reads a result file back, used by tooling and tests
func LoadResult(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read result file: %v", err)
	}
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse result file: %v", err)
	}
	return &r, nil
}
