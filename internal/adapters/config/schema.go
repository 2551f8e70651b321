package config

// MachfileDTO represents the structure of a Machfile after format decoding.
type MachfileDTO struct {
	Variables []VariableDTO `mapstructure:"variables"`
	Rules     []RuleDTO     `mapstructure:"rules"`
}

// VariableDTO represents a variable declaration.
type VariableDTO struct {
	Name   string `mapstructure:"name"`
	Value  any    `mapstructure:"value"`
	Expr   string `mapstructure:"expr"`
	CLI    bool   `mapstructure:"cli"`
	Help   string `mapstructure:"help"`
	Export bool   `mapstructure:"export"`
}

// RuleDTO represents a rule definition. Inputs hold names or inline rules.
type RuleDTO struct {
	Target   string            `mapstructure:"target"`
	Inputs   []any             `mapstructure:"inputs"`
	Script   string            `mapstructure:"script"`
	Scripts  []string          `mapstructure:"scripts"`
	Help     string            `mapstructure:"help"`
	Echo     *bool             `mapstructure:"echo"`
	Check    *bool             `mapstructure:"check"`
	Env      map[string]string `mapstructure:"env"`
	Output   string            `mapstructure:"output"`
	Shell    string            `mapstructure:"shell"`
	Encoding string            `mapstructure:"encoding"`
}
