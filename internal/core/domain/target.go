// Package domain contains the core build model: targets, rules, matches and recipes.
package domain

import (
	"os"
	"regexp"
	"strings"
)

// TargetKind distinguishes how a target decides whether it is stale.
type TargetKind int

const (
	// KindPlain is a symbolic target, stale until built once.
	KindPlain TargetKind = iota
	// KindFile is a target backed by a file whose modification time decides staleness.
	KindFile
	// KindPattern is a wildcard target that matches names and cooks them into file targets.
	KindPattern
)

// Wildcard is the marker that turns a target name into a pattern.
const Wildcard = "%"

// Target is a named build product.
type Target struct {
	name    string
	kind    TargetKind
	pattern *regexp.Regexp
	done    bool
}

// NewTarget creates a target, choosing its kind from the name: a wildcard makes
// a pattern, a dot or slash makes a file, anything else is plain.
func NewTarget(name string) *Target {
	switch {
	case strings.Contains(name, Wildcard):
		return NewPatternTarget(name)
	case IsFileName(name):
		return NewFileTarget(name)
	default:
		return &Target{name: name, kind: KindPlain}
	}
}

// NewFileTarget creates a target backed by the file at name.
func NewFileTarget(name string) *Target {
	return &Target{name: name, kind: KindFile}
}

// NewPatternTarget creates a wildcard target. Each wildcard becomes a
// non-greedy capture and the rest of the name is matched literally.
func NewPatternTarget(name string) *Target {
	parts := strings.Split(name, Wildcard)
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	expr := "^" + strings.Join(parts, "(.*?)") + "$"

	return &Target{
		name:    name,
		kind:    KindPattern,
		pattern: regexp.MustCompile(expr),
	}
}

// IsFileName reports whether name looks like a path.
func IsFileName(name string) bool {
	return strings.ContainsAny(name, "./")
}

// Name returns the target's name.
func (t *Target) Name() string {
	return t.name
}

// String implements fmt.Stringer.
func (t *Target) String() string {
	return t.name
}

// Kind returns the target's kind.
func (t *Target) Kind() TargetKind {
	return t.kind
}

// IsFile reports whether the target is backed by a file.
func (t *Target) IsFile() bool {
	return t.kind == KindFile
}

// Done reports whether the target was built during this run.
func (t *Target) Done() bool {
	return t.done
}

// MarkDone records a successful build. Once done, a target is never stale again.
func (t *Target) MarkDone() {
	t.done = true
}

// Cooked returns the target standing for name after wildcard substitution.
// An unchanged name keeps t itself, since targets carry build state. Plain
// targets stay plain; file and pattern targets become files.
func (t *Target) Cooked(name string) *Target {
	if name == t.name {
		return t
	}
	if t.kind == KindPlain {
		return &Target{name: name, kind: KindPlain}
	}
	return NewFileTarget(name)
}

// Matches returns a match when name designates this target, or nil.
func (t *Target) Matches(name string) *Match {
	if t.kind == KindPattern {
		groups := t.pattern.FindStringSubmatch(name)
		if groups == nil {
			return nil
		}
		return &Match{target: t, captures: groups[1:]}
	}

	if name != t.name {
		return nil
	}
	return &Match{target: t}
}

// Outdated reports whether the target needs building relative to ref.
//
// Plain and pattern targets are outdated until done, whatever ref is. A file
// target that is done is current. A missing file is outdated. Without a
// reference an existing file is current; against a file reference it is
// outdated when strictly older, and against anything else it is outdated.
func (t *Target) Outdated(ref *Target) bool {
	if t.kind != KindFile {
		return !t.done
	}

	if t.done {
		return false
	}

	info, err := os.Stat(t.name)
	if err != nil {
		return true
	}

	if ref == nil {
		return false
	}

	if ref.kind != KindFile {
		return true
	}

	refInfo, err := os.Stat(ref.name)
	if err != nil {
		return true
	}

	return info.ModTime().Before(refInfo.ModTime())
}
