package compare

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/Yann31150/Rechercheannonces/internal/models"
)

// MaxHistoryEntries bounds the rolling snapshot log; the oldest entries are
// evicted first once the cap is exceeded.
const MaxHistoryEntries = 30

// HistoryEntry is one timestamped snapshot in the rolling log.
type HistoryEntry struct {
	Timestamp string       `json:"timestamp"`
	TotalJobs int          `json:"total_jobs"`
	Jobs      []models.Job `json:"jobs"`
}

// ReadHistory loads the history file; a missing file is an empty log.
func ReadHistory(path string) ([]HistoryEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []HistoryEntry{}, nil
		}
		return nil, err
	}

	var history []HistoryEntry
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	if history == nil {
		history = []HistoryEntry{}
	}
	return history, nil
}

// AppendHistory appends a timestamped entry for jobs, evicts the oldest
// entries beyond MaxHistoryEntries and rewrites the whole file. The write
// is not atomic; a failed write propagates and the next run re-derives from
// the last good file.
func AppendHistory(path string, jobs []models.Job) (HistoryEntry, error) {
	entry := HistoryEntry{
		Timestamp: time.Now().Format(time.RFC3339),
		TotalJobs: len(jobs),
		Jobs:      jobs,
	}

	history, err := ReadHistory(path)
	if err != nil {
		return entry, err
	}

	history = append(history, entry)
	if len(history) > MaxHistoryEntries {
		history = history[len(history)-MaxHistoryEntries:]
	}

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return entry, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return entry, err
		}
	}
	return entry, os.WriteFile(path, append(data, '\n'), 0o644)
}
