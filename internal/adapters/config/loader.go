// Package config provides the Machfile loader for mach.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/mach/internal/core/domain"
	"go.trai.ch/mach/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// FileNames lists the recognized Machfile names in lookup order.
var FileNames = []string{"Machfile.yaml", "Machfile.yml", "Machfile.toml"}

var _ ports.MachfileLoader = (*Loader)(nil)

// Loader implements ports.MachfileLoader for YAML and TOML files.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Discover returns the Machfile in dir or the nearest parent directory.
func (l *Loader) Discover(dir string) (string, error) {
	currentDir, err := filepath.Abs(dir)
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve directory")
	}

	for {
		for _, name := range FileNames {
			candidate := filepath.Join(currentDir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrMachfileNotFound, "searched from "+dir), "dir", dir)
}

// Load reads and decodes the Machfile at path. The format follows the file
// extension; anything other than .toml is read as YAML.
func (l *Loader) Load(path string) (*domain.Machfile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read Machfile"), "path", path)
	}

	raw := make(map[string]any)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, invalid(path, err)
	}

	dto, err := decodeMachfile(raw)
	if err != nil {
		return nil, invalid(path, err)
	}

	mf, err := toDomain(dto)
	if err != nil {
		return nil, invalid(path, err)
	}
	mf.Path = path

	if len(mf.Rules) == 0 {
		l.Logger.Warn(path + " defines no rules")
	}
	return mf, nil
}

func invalid(path string, err error) error {
	return zerr.With(zerr.Wrap(domain.ErrInvalidMachfile, err.Error()), "path", path)
}
