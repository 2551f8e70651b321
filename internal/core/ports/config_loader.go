package ports

import "go.trai.ch/mach/internal/core/domain"

// MachfileLoader defines the interface for locating and decoding build descriptions.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type MachfileLoader interface {
	// Discover returns the path of the build description in dir.
	Discover(dir string) (string, error)
	// Load decodes the build description at path.
	Load(path string) (*domain.Machfile, error)
}
