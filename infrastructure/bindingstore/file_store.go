// Package bindingstore persists binding snapshots as YAML files.
package bindingstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/reglet-dev/stubhost/domain/entities"
	"github.com/reglet-dev/stubhost/domain/ports"
	"gopkg.in/yaml.v3"
)

// fileStoreConfig holds configuration for the FileStore.
type fileStoreConfig struct {
	path     string      // Path to the snapshot file
	dirPerm  os.FileMode // Permission for created directories
	filePerm os.FileMode // Permission for the snapshot file
}

func defaultFileStoreConfig() fileStoreConfig {
	return fileStoreConfig{
		path:     filepath.Join(os.TempDir(), "stubhost", "bindings.yaml"),
		dirPerm:  0o755,
		filePerm: 0o600,
	}
}

// FileStoreOption configures a FileStore instance.
type FileStoreOption func(*fileStoreConfig)

// WithPath sets the path to the snapshot file.
func WithPath(path string) FileStoreOption {
	return func(c *fileStoreConfig) {
		if path != "" {
			c.path = path
		}
	}
}

// WithFilePermissions sets the file permissions for the snapshot file.
// Default is 0o600 (user-only).
func WithFilePermissions(perm os.FileMode) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.filePerm = perm
	}
}

// WithDirPermissions sets the permissions for created directories.
// Default is 0o755.
func WithDirPermissions(perm os.FileMode) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.dirPerm = perm
	}
}

// FileStore provides file-based persistence for binding snapshots.
type FileStore struct {
	config fileStoreConfig
}

var _ ports.BindingStore = (*FileStore)(nil)

// NewFileStore creates a new FileStore with the given options.
func NewFileStore(opts ...FileStoreOption) *FileStore {
	cfg := defaultFileStoreConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &FileStore{config: cfg}
}

// Load reads the last saved snapshot. A missing file yields an empty snapshot.
func (s *FileStore) Load() (*entities.BindingSnapshot, error) {
	data, err := os.ReadFile(s.config.path)
	if os.IsNotExist(err) {
		return &entities.BindingSnapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read binding snapshot: %w", err)
	}

	var snap entities.BindingSnapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse binding snapshot: %w", err)
	}
	return &snap, nil
}

// Save writes the snapshot, replacing any previous one. The file is written
// to a temporary name first and renamed into place.
func (s *FileStore) Save(snap *entities.BindingSnapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal binding snapshot: %w", err)
	}

	dir := filepath.Dir(s.config.path)
	if err := os.MkdirAll(dir, s.config.dirPerm); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp := s.config.path + ".tmp"
	if err := os.WriteFile(tmp, data, s.config.filePerm); err != nil {
		return fmt.Errorf("failed to write binding snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.config.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write binding snapshot: %w", err)
	}
	return nil
}

// Path returns the path to the snapshot file.
func (s *FileStore) Path() string {
	return s.config.path
}

// LoadFile reads a snapshot from an arbitrary path.
func LoadFile(path string) (*entities.BindingSnapshot, error) {
	return NewFileStore(WithPath(path)).Load()
}
