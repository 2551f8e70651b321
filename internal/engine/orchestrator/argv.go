package orchestrator

import "regexp"

// DefaultTarget is built when the command line names no target.
const DefaultTarget = "main"

var (
	optionArg = regexp.MustCompile(`^--(\w[\w-]*\w)(?:=(.*))?$`)
	flagArg   = regexp.MustCompile(`^(\w\w+)=(.*)$`)
)

// ArgKind classifies a command-line token.
type ArgKind int

const (
	// ArgTarget is the name of a target to build.
	ArgTarget ArgKind = iota
	// ArgFlag assigns a declared variable: name=value.
	ArgFlag
	// ArgOption sets an option: --name or --name=value.
	ArgOption
)

// Arg is a classified command-line token.
type Arg struct {
	Kind     ArgKind
	Name     string
	Value    string
	HasValue bool
}

// ClassifyArgv splits tokens into options, flags and target names without
// applying them. An option with an empty value counts as a switch.
func ClassifyArgv(args []string) []Arg {
	out := make([]Arg, 0, len(args))
	for _, item := range args {
		if m := optionArg.FindStringSubmatch(item); m != nil {
			out = append(out, Arg{Kind: ArgOption, Name: m[1], Value: m[2], HasValue: m[2] != ""})
			continue
		}
		if m := flagArg.FindStringSubmatch(item); m != nil {
			out = append(out, Arg{Kind: ArgFlag, Name: m[1], Value: m[2], HasValue: true})
			continue
		}
		out = append(out, Arg{Kind: ArgTarget, Name: item})
	}
	return out
}

// ProcessArgv applies the options and flags in args and returns the targets
// to build, at least one.
func (o *Orchestrator) ProcessArgv(args []string) ([]string, error) {
	var targets []string
	for _, arg := range ClassifyArgv(args) {
		switch arg.Kind {
		case ArgOption:
			if err := o.SetOption(arg.Name, arg.Value, arg.HasValue); err != nil {
				return nil, err
			}
		case ArgFlag:
			if err := o.SetFlag(arg.Name, arg.Value); err != nil {
				return nil, err
			}
		default:
			targets = append(targets, arg.Name)
		}
	}

	if len(targets) == 0 {
		targets = []string{DefaultTarget}
	}
	return targets, nil
}
