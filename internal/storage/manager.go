// Package storage provides the StorageManager that selects the profile backend.
package storage

import (
	"fmt"

	"github.com/bobmcallan/finbot/internal/common"
	"github.com/bobmcallan/finbot/internal/interfaces"
	"github.com/bobmcallan/finbot/internal/storage/badger"
	"github.com/bobmcallan/finbot/internal/storage/memory"
)

// Backend type constants.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Manager implements interfaces.StorageManager.
type Manager struct {
	backend  string
	profiles interfaces.ProfileStorage
	badger   *badger.Store
	logger   *common.Logger
}

// NewManager creates the StorageManager for the configured backend.
// Supported backends: "memory" (default), "badger".
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	backend := config.Storage.Backend
	if backend == "" {
		backend = BackendMemory
	}

	m := &Manager{backend: backend, logger: logger}

	switch backend {
	case BackendMemory:
		m.profiles = memory.NewProfileStorage()

	case BackendBadger:
		store, err := badger.NewStore(logger, config.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to create badger store: %w", err)
		}
		m.badger = store
		m.profiles = badger.NewProfileStorage(store, logger)

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: memory, badger)", backend)
	}

	logger.Info().
		Str("backend", backend).
		Str("path", config.Storage.Path).
		Msg("Storage manager initialized")

	return m, nil
}

func (m *Manager) ProfileStorage() interfaces.ProfileStorage {
	return m.profiles
}

func (m *Manager) Backend() string {
	return m.backend
}

// Close releases the backend, if it holds resources.
func (m *Manager) Close() error {
	if m.badger != nil {
		return m.badger.Close()
	}
	return nil
}

var _ interfaces.StorageManager = (*Manager)(nil)
