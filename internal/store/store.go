package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"budget-service/internal/entity"

	"github.com/sirupsen/logrus"
)

const (
	snapshotFile = "rates.json"
	historyFile  = "rates_history.json"

	jsonIndent = "    "
)

var ErrNotFound = errors.New("not found")

// FileStore persists the current snapshot and the historical series as
// pretty-printed JSON documents under a single data directory. Writes go to
// a temp file first and are moved into place, so a concurrent reader never
// observes a half-written document.
type FileStore struct {
	dir    string
	mu     sync.Mutex
	logger *logrus.Logger
}

func NewFileStore(dir string, logger *logrus.Logger) *FileStore {
	return &FileStore{
		dir:    dir,
		logger: logger,
	}
}

func (s *FileStore) SaveSnapshot(ctx context.Context, snapshot *entity.RateSnapshot) error {
	if err := s.writeJSON(snapshotFile, snapshot); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	s.logger.Infof("rates.json updated at %s", filepath.Join(s.dir, snapshotFile))
	return nil
}

func (s *FileStore) LoadSnapshot(ctx context.Context) (*entity.RateSnapshot, error) {
	var snapshot entity.RateSnapshot
	if err := s.readJSON(snapshotFile, &snapshot); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return &snapshot, nil
}

func (s *FileStore) SaveHistory(ctx context.Context, history entity.HistorySeries) error {
	if err := s.writeJSON(historyFile, history); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	s.logger.Infof("rates_history.json updated at %s", filepath.Join(s.dir, historyFile))
	return nil
}

func (s *FileStore) LoadHistory(ctx context.Context) (entity.HistorySeries, error) {
	history := entity.HistorySeries{}
	if err := s.readJSON(historyFile, &history); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return history, nil
}

func (s *FileStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", jsonIndent)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

func (s *FileStore) readJSON(name string, v any) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
