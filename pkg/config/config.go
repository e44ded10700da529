// Package config loads optional run defaults from a .ctxmerge.toml file in
// the working directory, falling back to the XDG config directory. Flags
// always override file values; a missing file contributes nothing.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"ctxmerge/pkg/merge"
)

// LocalFileName is the per-project configuration file.
const LocalFileName = ".ctxmerge.toml"

// File mirrors the TOML configuration surface.
type File struct {
	Output        string   `toml:"output"`
	Extensions    []string `toml:"extensions"`
	IgnoreDirs    []string `toml:"ignore-dirs"`
	IgnoreFiles   []string `toml:"ignore-files"`
	IgnoreExt     []string `toml:"ignore-ext"`
	PriorityFiles []string `toml:"priority-files"`
	MaxFileSize   int64    `toml:"max-size"`
	MaxLines      int      `toml:"max-lines"`
	Sort          string   `toml:"sort"`
}

// Load finds and parses the first configuration file that exists: the local
// .ctxmerge.toml, then $XDG_CONFIG_HOME/ctxmerge/config.toml. No file means
// an empty File and no error.
func Load(logger *zap.Logger) (File, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	candidates := []string{LocalFileName}
	if xdgPath, err := xdg.SearchConfigFile(filepath.Join("ctxmerge", "config.toml")); err == nil {
		candidates = append(candidates, xdgPath)
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := LoadPath(path)
		if err != nil {
			return File{}, err
		}
		logger.Debug("Loaded configuration file", zap.String("path", path))
		return cfg, nil
	}
	return File{}, nil
}

// LoadPath parses one configuration file.
func LoadPath(path string) (File, error) {
	var cfg File
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return File{}, err
	}
	return cfg, nil
}

// Apply overlays the file's values onto the run options. Scalars replace the
// defaults only when set; list values are appended to the CLI-provided ones.
func (f File) Apply(opts *merge.Options) {
	if f.Output != "" {
		opts.Output = f.Output
	}
	if f.MaxFileSize > 0 {
		opts.MaxFileSize = f.MaxFileSize
	}
	if f.MaxLines > 0 {
		opts.MaxLines = f.MaxLines
	}
	if f.Sort != "" {
		opts.Sort = merge.SortMode(f.Sort)
	}
	opts.Extensions = append(opts.Extensions, f.Extensions...)
	opts.IgnoreDirs = append(opts.IgnoreDirs, f.IgnoreDirs...)
	opts.IgnoreFiles = append(opts.IgnoreFiles, f.IgnoreFiles...)
	opts.IgnoreExt = append(opts.IgnoreExt, f.IgnoreExt...)
	opts.PriorityFiles = append(opts.PriorityFiles, f.PriorityFiles...)
}
