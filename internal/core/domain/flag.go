package domain

// Flag is a declared variable. When CLI is set it can be assigned from the
// command line as name=value and is listed in the help, with Help as its text.
type Flag struct {
	Name    string
	Default any
	CLI     bool
	Help    string
}

// Documented reports whether the flag appears in the help listing. Only flags
// settable from the command line are listed, with or without help text.
func (f Flag) Documented() bool {
	return f.CLI
}

// Option is a command-line switch (`--name`) or valued option (`--name=value`).
type Option struct {
	Name  string
	Value any
	// Valued is true for string options and false for boolean switches.
	Valued bool
}
