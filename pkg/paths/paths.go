// Package paths provides centralized path handling for dotrig.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/dotrig/dotrig/pkg/errors"
)

// Environment variable names
const (
	// EnvElementsDir is the primary environment variable for the element descriptor directory
	EnvElementsDir = "DOTRIG_ELEMENTS_DIR"

	// EnvStorageDir overrides the storage directory where tools install material
	EnvStorageDir = "DOTRIG_STORAGE_DIR"

	// EnvConfigDir overrides the XDG config directory for dotrig
	EnvConfigDir = "DOTRIG_CONFIG_DIR"
)

// Default directories and files
const (
	// DotrigDirName is the directory name for dotrig-specific files
	DotrigDirName = "dotrig"

	// StorageDirName is the subdirectory under the data dir where tools
	// place cloned repositories and installed material
	StorageDirName = "storage"

	// ElementsDirName is the default directory name for element descriptors
	ElementsDirName = "elements"

	// LockFileName guards the storage directory against concurrent runs
	LockFileName = ".dotrig.lock"

	// ConfigFileName is the app configuration file name
	ConfigFileName = "config.toml"
)

// Paths provides centralized path management for dotrig
type Paths struct {
	dataDir    string
	configDir  string
	storageDir string
}

// New creates a new Paths instance. If storageDir is empty it is resolved
// from DOTRIG_STORAGE_DIR or the XDG data directory.
func New(storageDir string) (*Paths, error) {
	p := &Paths{}

	p.dataDir = filepath.Join(xdg.DataHome, DotrigDirName)

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.configDir = expandHome(configDir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, DotrigDirName)
	}

	switch {
	case storageDir != "":
		p.storageDir = expandHome(storageDir)
	case os.Getenv(EnvStorageDir) != "":
		p.storageDir = expandHome(os.Getenv(EnvStorageDir))
	default:
		p.storageDir = filepath.Join(p.dataDir, StorageDirName)
	}

	absStorage, err := filepath.Abs(p.storageDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for storage dir")
	}
	p.storageDir = absStorage

	return p, nil
}

// DataDir returns the dotrig data directory
func (p *Paths) DataDir() string {
	return p.dataDir
}

// ConfigDir returns the dotrig config directory
func (p *Paths) ConfigDir() string {
	return p.configDir
}

// ConfigFilePath returns the app configuration file path
func (p *Paths) ConfigFilePath() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

// StorageDir returns the resolved storage directory. Every element run sees
// this path as the storageDir context variable.
func (p *Paths) StorageDir() string {
	return p.storageDir
}

// LockFilePath returns the path of the lock file guarding the storage directory
func (p *Paths) LockFilePath() string {
	return filepath.Join(p.storageDir, LockFileName)
}

// DefaultElementsDir returns the default element descriptor directory
func (p *Paths) DefaultElementsDir() string {
	return filepath.Join(p.configDir, ElementsDirName)
}

// EnsureStorageDir creates the storage directory if it does not exist
func (p *Paths) EnsureStorageDir() error {
	if err := os.MkdirAll(p.storageDir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to create storage dir %s", p.storageDir)
	}
	return nil
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
