package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the resolved directories the application writes into. It is
// the single source of truth for file placement; nothing else should
// join path segments against the config directly.
type Paths struct {
	DataDir    string
	UploadsDir string
	ReportsDir string
	LogsDir    string
}

// ResolvePaths resolves the configured directories to absolute paths.
func ResolvePaths(cfg PathsConfig) (*Paths, error) {
	resolve := func(dir string) (string, error) {
		if filepath.IsAbs(dir) {
			return dir, nil
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", dir, err)
		}
		return abs, nil
	}

	var p Paths
	var err error
	if p.DataDir, err = resolve(cfg.DataDir); err != nil {
		return nil, err
	}
	if p.UploadsDir, err = resolve(cfg.UploadsDir); err != nil {
		return nil, err
	}
	if p.ReportsDir, err = resolve(cfg.ReportsDir); err != nil {
		return nil, err
	}
	if p.LogsDir, err = resolve(cfg.LogsDir); err != nil {
		return nil, err
	}
	return &p, nil
}

// EnsureDirectories creates all required directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.UploadsDir, p.ReportsDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// UploadPath returns the path for a stored upload file.
func (p *Paths) UploadPath(filename string) string {
	return filepath.Join(p.UploadsDir, filename)
}

// ReportPath returns the path for a generated report file.
func (p *Paths) ReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
