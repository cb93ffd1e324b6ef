package cost

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type ActivityRecord struct {
	Timestamp    time.Time `json:"timestamp"`
	Command      string    `json:"command"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	TokensInput  int       `json:"tokens_input"`
	TokensOutput int       `json:"tokens_output"`
	CostUSD      float64   `json:"cost_usd"`
	DurationMs   int64     `json:"duration_ms"`
	CacheHit     bool      `json:"cache_hit"`
}

// Summary aggregates the recorded activity for a period.
type Summary struct {
	Generations  int
	CacheHits    int
	TokensInput  int
	TokensOutput int
	CostUSD      float64
}

// Manager keeps the generation history in a JSON file. It is safe for
// concurrent use within one process.
type Manager struct {
	mu          sync.Mutex
	historyPath string
	now         func() time.Time
}

// NewManager stores the history as history.json under dir.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating history directory: %w", err)
	}

	return &Manager{
		historyPath: filepath.Join(dir, "history.json"),
		now:         time.Now,
	}, nil
}

// SaveActivity saves an activity record
func (m *Manager) SaveActivity(record ActivityRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	slog.Debug("saving activity record",
		"command", record.Command,
		"provider", record.Provider,
		"model", record.Model,
		"tokens_input", record.TokensInput,
		"tokens_output", record.TokensOutput,
		"cost_usd", record.CostUSD,
		"cache_hit", record.CacheHit)

	records, err := m.loadHistory()
	if err != nil {
		records = []ActivityRecord{}
	}

	records = append(records, record)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("error serializing history: %w", err)
	}

	if err := os.WriteFile(m.historyPath, data, 0644); err != nil {
		slog.Error("failed to write activity history",
			"path", m.historyPath,
			"error", err)
		return fmt.Errorf("error saving history: %w", err)
	}

	return nil
}

// Today summarizes the records of the current day.
func (m *Manager) Today() (Summary, error) {
	return m.summarize("2006-01-02")
}

// ThisMonth summarizes the records of the current month.
func (m *Manager) ThisMonth() (Summary, error) {
	return m.summarize("2006-01")
}

// GetHistory gets all records
func (m *Manager) GetHistory() ([]ActivityRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadHistory()
}

func (m *Manager) summarize(layout string) (Summary, error) {
	records, err := m.GetHistory()
	if err != nil {
		return Summary{}, err
	}

	period := m.now().Format(layout)
	var s Summary
	for _, r := range records {
		if r.Timestamp.Format(layout) != period {
			continue
		}
		s.Generations++
		if r.CacheHit {
			s.CacheHits++
		}
		s.TokensInput += r.TokensInput
		s.TokensOutput += r.TokensOutput
		s.CostUSD += r.CostUSD
	}
	return s, nil
}

func (m *Manager) loadHistory() ([]ActivityRecord, error) {
	data, err := os.ReadFile(m.historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []ActivityRecord{}, nil
		}
		return nil, fmt.Errorf("error reading history: %w", err)
	}

	var records []ActivityRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("error deserializing history: %w", err)
	}

	return records, nil
}
