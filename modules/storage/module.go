package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// Module owns the upload store and validates the uploads directory
// before the server accepts any request.
type Module struct {
	dir    string
	store  *Store
	logger types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)

// NewModule creates a new storage module over the given uploads
// directory.
func NewModule(dir string, logger types.Logger) *Module {
	return &Module{
		dir:    dir,
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "storage"
}

// Start validates the uploads directory and creates the store. The
// directory must pre-exist, be a directory, and be writable; anything
// else is fatal before serving.
func (m *Module) Start(_ context.Context) error {
	info, err := os.Stat(m.dir)
	if err != nil {
		return fmt.Errorf("uploads directory %q is not usable: %w", m.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("uploads path %q is not a directory", m.dir)
	}

	// Probe writability once instead of discovering it per request.
	probe, err := os.CreateTemp(m.dir, ".write-probe-*")
	if err != nil {
		return fmt.Errorf("uploads directory %q is not writable: %w", m.dir, err)
	}
	probe.Close()
	if err := os.Remove(probe.Name()); err != nil {
		return fmt.Errorf("failed to remove write probe in %q: %w", m.dir, err)
	}

	m.store = NewStore(m.dir)
	m.logger.Info("Storage module started", "dir", m.dir)
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Storage module stopped")
	return nil
}

// Store returns the upload store instance.
func (m *Module) Store() *Store {
	return m.store
}
