package agent

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// TickRecord captures what one tick of a run did.
type TickRecord struct {
	Tick       int     `json:"tick"`
	Status     Status  `json:"status"`
	Goal       string  `json:"goal,omitempty"`
	Action     string  `json:"action,omitempty"`
	PlanLength int     `json:"plan_length,omitempty"`
	PlanCost   float64 `json:"plan_cost,omitempty"`
	Error      string  `json:"error,omitempty"`
	DurationMS int64   `json:"duration_ms"`
}

// RunRecord is the persisted journal of a whole run.
type RunRecord struct {
	RunID       string       `json:"run_id"`
	StartedAt   string       `json:"started_at"`
	FinishedAt  string       `json:"finished_at,omitempty"`
	FinalStatus Status       `json:"final_status,omitempty"`
	Reason      string       `json:"reason,omitempty"`
	Ticks       []TickRecord `json:"ticks"`
}

// Journal records the progress of a run. Implementations must tolerate
// being called once per tick from the run's own goroutine.
type Journal interface {
	// Record appends one tick's outcome.
	Record(rec TickRecord)

	// Close finalizes the journal with the run's terminal status.
	Close(final Status, reason string) error
}

// NopJournal discards everything. It is the default for library users that
// do their own bookkeeping.
type NopJournal struct{}

func (NopJournal) Record(TickRecord) {}

func (NopJournal) Close(Status, string) error { return nil }

// FileJournal writes the run record as JSON under basePath/<runID>/run.json,
// rewriting the file after every tick so a crash loses at most one entry.
type FileJournal struct {
	basePath string
	record   RunRecord
}

// NewFileJournal creates a journal rooted at basePath for the given run.
func NewFileJournal(basePath, runID string) *FileJournal {
	return &FileJournal{
		basePath: basePath,
		record: RunRecord{
			RunID:     runID,
			StartedAt: time.Now().UTC().Format(time.RFC3339),
			Ticks:     []TickRecord{},
		},
	}
}

// Record appends a tick and flushes the journal to disk.
func (j *FileJournal) Record(rec TickRecord) {
	j.record.Ticks = append(j.record.Ticks, rec)
	if err := j.save(); err != nil {
		log.Warn("Failed to write run journal", "runID", j.record.RunID, "error", err)
	}
}

// Close stamps the terminal status and writes the final journal.
func (j *FileJournal) Close(final Status, reason string) error {
	j.record.FinalStatus = final
	j.record.Reason = reason
	j.record.FinishedAt = time.Now().UTC().Format(time.RFC3339)
	return j.save()
}

// Run returns the in-memory run record.
func (j *FileJournal) Run() RunRecord {
	return j.record
}

// Path returns the journal file location.
func (j *FileJournal) Path() string {
	return filepath.Join(j.basePath, j.record.RunID, "run.json")
}

func (j *FileJournal) save() error {
	dir := filepath.Join(j.basePath, j.record.RunID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	data, err := json.MarshalIndent(j.record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	if err := os.WriteFile(j.Path(), data, 0644); err != nil {
		return fmt.Errorf("failed to write run record: %w", err)
	}
	return nil
}

// LoadRunRecord reads a persisted run record back from disk.
func LoadRunRecord(basePath, runID string) (*RunRecord, error) {
	path := filepath.Join(basePath, runID, "run.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run record: %w", err)
	}

	var rec RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse run record: %w", err)
	}
	return &rec, nil
}
