package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SessionInfo records the parameters the session ran with.
type SessionInfo struct {
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Duration       string    `json:"duration"`
	Instrument     string    `json:"instrument"`
	Window         int       `json:"moving_average_window"`
	PositionSize   float64   `json:"position_size"`
	InitialBalance float64   `json:"initial_balance"`
}

// Results is the full serialized output of one trading session.
type Results struct {
	Session SessionInfo `json:"session_info"`
	Metrics Metrics     `json:"metrics"`
	Trades  []Trade     `json:"trades"`
}

// DefaultFilename builds the timestamped results filename for an instrument,
// e.g. "eur_usd_session_results_20251017_153000.json".
func DefaultFilename(instrument string, at time.Time) string {
	name := ""
	for _, r := range instrument {
		switch {
		case r >= 'A' && r <= 'Z':
			name += string(r - 'A' + 'a')
		case r == '/':
			name += "_"
		default:
			name += string(r)
		}
	}
	return fmt.Sprintf("%s_session_results_%s.json", name, at.Format("20060102_150405"))
}

// Save writes the results as indented JSON. When path is a directory or
// empty, a timestamped filename is generated inside it.
func (r Results) Save(path string) (string, error) {
	if path == "" {
		path = DefaultFilename(r.Session.Instrument, r.Session.EndTime)
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultFilename(r.Session.Instrument, r.Session.EndTime))
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write results: %w", err)
	}
	return path, nil
}
