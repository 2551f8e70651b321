// Package help renders the flag and rule listing printed by `mach list` and
// the built-in help rule.
package help

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mitchellh/go-wordwrap"
	"github.com/muesli/termenv"
	"go.trai.ch/mach/internal/core/domain"
	"go.trai.ch/mach/internal/core/ports"
)

const (
	// Width is the wrapping width of help text.
	Width = 70
	// HangingIndent prefixes continuation lines of wrapped help text.
	HangingIndent = "    "
	// NoHelp stands in for missing help text.
	NoHelp = "(no help)"
)

var (
	_ ports.HelpRenderer = (*Renderer)(nil)

	whitespace = regexp.MustCompile(`\s+`)
)

// Renderer implements ports.HelpRenderer. By default headings are bold only
// when the writer is a terminal, TERM is not dumb and NO_COLOR is unset.
type Renderer struct {
	opts []termenv.OutputOption
}

// NewRenderer creates a new Renderer. Options override the color profile
// detected from the output writer.
func NewRenderer(opts ...termenv.OutputOption) *Renderer {
	return &Renderer{opts: opts}
}

// Render writes the command-line flags and the public rules to w.
func (r *Renderer) Render(w io.Writer, flags []domain.Flag, rules []*domain.Rule) error {
	bold := lipgloss.NewRenderer(w, r.opts...).NewStyle().Bold(true)

	var b strings.Builder
	if len(flags) > 0 {
		b.WriteString(bold.Render("Flags:") + "\n")
	}
	for _, flag := range flags {
		if !flag.Documented() {
			continue
		}
		entry(&b, bold, flag.Name, flag.Help)
	}

	if len(rules) > 0 {
		b.WriteString(bold.Render("Rules:") + "\n")
	}
	for _, rule := range rules {
		if rule.IsPrivate() {
			continue
		}
		entry(&b, bold, rule.Name(), rule.Help)
	}

	_, err := fmt.Fprint(w, b.String())
	return err
}

func entry(b *strings.Builder, bold lipgloss.Style, name, help string) {
	b.WriteString(bold.Render("  - "+name+":") + " " + Normalize(help) + "\n")
}

// Normalize collapses whitespace in help text and wraps it with a hanging
// indent. Empty text becomes NoHelp.
func Normalize(help string) string {
	help = strings.TrimSpace(whitespace.ReplaceAllString(help, " "))
	if help == "" {
		return NoHelp
	}
	wrapped := wordwrap.WrapString(help, Width-uint(len(HangingIndent)))
	return strings.ReplaceAll(wrapped, "\n", "\n"+HangingIndent)
}
