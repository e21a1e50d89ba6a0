package storage

import (
	"context"
	"errors"
	"fmt"

	"sitecheck/internal/config"
	"sitecheck/internal/domain"
)

// Storage persists and loads run results (e.g. for the failures viewer).
type Storage interface {
	// Save records a finished run.
	Save(output *domain.RunOutput) error
	// Load returns the last recorded run.
	Load() (*domain.RunOutput, error)
	// SaveOutput rewrites a recorded run (e.g. after resolving failures in the viewer).
	SaveOutput(output *domain.RunOutput) error
}

// JSONStorage stores results in a JSON file under the configured output path.
type JSONStorage struct {
	path string
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{path: cfg.GetOutputPath()}
}

// Path returns the JSON file the storage uses
func (s *JSONStorage) Path() string {
	return s.path
}

// Multi saves to every storage and loads from the first one.
type Multi []Storage

// Save saves output to all storages, joining their errors
func (m Multi) Save(output *domain.RunOutput) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Save(output))
	}
	return errors.Join(errs...)
}

// Load loads from the first storage
func (m Multi) Load() (*domain.RunOutput, error) {
	if len(m) == 0 {
		return nil, errors.New("no storage configured")
	}
	return m[0].Load()
}

// SaveOutput rewrites the run in all storages, joining their errors
func (m Multi) SaveOutput(output *domain.RunOutput) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.SaveOutput(output))
	}
	return errors.Join(errs...)
}

// Open returns the storages configured in cfg: the JSON file, plus the MySQL
// history when a DSN is set. The returned func releases them.
func Open(ctx context.Context, cfg *config.Config) (Storage, func() error, error) {
	jsonStorage := NewJSONStorage(cfg)
	if cfg.MySQLDSN == "" {
		return jsonStorage, func() error { return nil }, nil
	}

	history, err := NewMySQLStorage(cfg.MySQLDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := history.Open(ctx); err != nil {
		return nil, nil, fmt.Errorf("mysql history: %w", err)
	}
	return Multi{jsonStorage, history}, history.Close, nil
}
