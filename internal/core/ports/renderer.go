package ports

import (
	"io"

	"go.trai.ch/mach/internal/core/domain"
)

// HelpRenderer defines the interface for printing the target listing.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type HelpRenderer interface {
	// Render writes the command-line flags and the public rules to w.
	Render(w io.Writer, flags []domain.Flag, rules []*domain.Rule) error
}
