package home

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// DefaultDirName is the default directory name when none is given and
	// the process is not running in a hosted production environment.
	DefaultDirName = "."

	// Subdirectories for uploaded PDFs, result artifacts and debug reports.
	UploadsDirName = "uploads"
	ResultsDirName = "results"
	DebugDirName   = "debug"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// ErrInvalidName is returned for file names that would escape their directory.
var ErrInvalidName = errors.New("invalid file name")

// Dir represents the working storage layout.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, hosted production environments use the system temp
// directory and everything else uses the working directory.
func New(path string) (*Dir, error) {
	if path == "" {
		path = DefaultDirName
		if IsProduction(os.Getenv) {
			path = filepath.Join(os.TempDir(), "ocr-typhoon")
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return &Dir{path: abs}, nil
}

// IsProduction reports whether the environment looks like a hosted deployment.
func IsProduction(getenv func(string) string) bool {
	if getenv("RENDER") != "" || getenv("RAILWAY_ENVIRONMENT") != "" {
		return true
	}
	return getenv("FLASK_ENV") == "production" || getenv("APP_ENV") == "production"
}

// Environment names the deployment environment for health reports.
func Environment(getenv func(string) string) string {
	if IsProduction(getenv) {
		return "production"
	}
	return "development"
}

// Platform names the hosting platform: "render", "railway" or "local".
func Platform(getenv func(string) string) string {
	switch {
	case getenv("RENDER") != "":
		return "render"
	case getenv("RAILWAY_ENVIRONMENT") != "":
		return "railway"
	default:
		return "local"
	}
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// UploadsPath returns the directory for uploaded PDFs.
func (d *Dir) UploadsPath() string {
	return filepath.Join(d.path, UploadsDirName)
}

// ResultsPath returns the directory for JSON and Excel results.
func (d *Dir) ResultsPath() string {
	return filepath.Join(d.path, ResultsDirName)
}

// DebugPath returns the directory for diagnostics reports.
func (d *Dir) DebugPath() string {
	return filepath.Join(d.path, DebugDirName)
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	for _, dir := range []string{d.UploadsPath(), d.ResultsPath(), d.DebugPath()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// UploadPath returns a unique path in the uploads directory for a client file name.
func (d *Dir) UploadPath(name string) (string, error) {
	safe, err := SafeName(filepath.Base(filepath.ToSlash(name)))
	if err != nil {
		return "", err
	}
	return filepath.Join(d.UploadsPath(), uuid.NewString()+"_"+safe), nil
}

// ResultFile resolves a result artifact name inside the results directory.
func (d *Dir) ResultFile(name string) (string, error) {
	return resolve(d.ResultsPath(), name)
}

// DebugFile resolves a debug artifact name inside the debug directory.
func (d *Dir) DebugFile(name string) (string, error) {
	return resolve(d.DebugPath(), name)
}

func resolve(dir, name string) (string, error) {
	safe, err := SafeName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, safe), nil
}

// SafeName rejects names that are empty, hidden, or contain path separators.
func SafeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "", name == ".", name == "..":
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`), strings.ContainsRune(name, 0):
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.HasPrefix(name, "."):
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return name, nil
}
