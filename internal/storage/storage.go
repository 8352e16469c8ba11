// Package storage persists trade records as a JSON file with atomic saves.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ogostos/optledger/internal/models"
)

// JSONStorage is a file-backed trade store guarded by a RWMutex.
type JSONStorage struct {
	mu       sync.RWMutex
	filepath string
	data     *storeData
}

type storeData struct {
	Trades      []models.Trade `json:"trades"`
	LastUpdated time.Time      `json:"last_updated"`
}

// NewJSONStorage opens (or initializes) the trade store at filepath.
func NewJSONStorage(filepath string) (*JSONStorage, error) {
	s := &JSONStorage{
		filepath: filepath,
		data:     &storeData{},
	}
	if _, err := os.Stat(filepath); err == nil {
		if err := s.Load(); err != nil {
			return nil, fmt.Errorf("loading trade store: %w", err)
		}
	}
	return s, nil
}

// Load reads the store file from disk.
func (s *JSONStorage) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filepath)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, s.data)
}

// Save writes the store to a temp file and renames it into place.
func (s *JSONStorage) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *JSONStorage) saveLocked() error {
	s.data.LastUpdated = time.Now().UTC()

	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	tmpFile := s.filepath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpFile, s.filepath)
}

// ListOpenTrades returns the open trades in stable insertion order.
func (s *JSONStorage) ListOpenTrades() []models.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var open []models.Trade
	for _, t := range s.data.Trades {
		if t.Status == models.StatusOpen {
			open = append(open, t)
		}
	}
	return open
}

// ListTrades returns a copy of all trades.
func (s *JSONStorage) ListTrades() []models.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Trade, len(s.data.Trades))
	copy(out, s.data.Trades)
	return out
}

// UpsertTrade inserts or replaces a trade by ID and persists.
func (s *JSONStorage) UpsertTrade(t models.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		return fmt.Errorf("trade ID is required")
	}
	replaced := false
	for i := range s.data.Trades {
		if s.data.Trades[i].ID == t.ID {
			s.data.Trades[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		s.data.Trades = append(s.data.Trades, t)
	}
	return s.saveLocked()
}

// CloseTrade marks a trade closed with a reason and persists.
func (s *JSONStorage) CloseTrade(id, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Trades {
		if s.data.Trades[i].ID != id {
			continue
		}
		s.data.Trades[i].Status = models.StatusClosed
		s.data.Trades[i].ExitReason = reason
		s.data.Trades[i].ExitDate = time.Now().UTC()
		return s.saveLocked()
	}
	return fmt.Errorf("trade %s not found", id)
}
