package domain

import "go.trai.ch/zerr"

var (
	// ErrNoRule is returned when no registered rule can make a requested name.
	ErrNoRule = zerr.New("no rule for making target")

	// ErrCycleDetected is returned when a rule depends on itself, directly or transitively.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrRecursionLimit is returned when inputs nest deeper than the orchestrator allows,
	// typically because a pattern rule keeps cooking longer names from its own inputs.
	ErrRecursionLimit = zerr.New("recursion limit exceeded")

	// ErrWildcardMismatch is returned when a name holds more wildcards than the match captured.
	ErrWildcardMismatch = zerr.New("more wildcards than captures")

	// ErrInvalidVariableName is returned when a declared variable name is not a word of two or more characters.
	ErrInvalidVariableName = zerr.New("invalid variable name")

	// ErrAlreadyDeclared is returned when a variable or option is declared twice.
	ErrAlreadyDeclared = zerr.New("already declared")

	// ErrUndeclaredFlag is returned when the command line sets a variable that was never declared.
	ErrUndeclaredFlag = zerr.New("undeclared flag")

	// ErrFlagNotCLI is returned when the command line sets a variable declared without CLI access.
	ErrFlagNotCLI = zerr.New("flag cannot be set from the command line")

	// ErrUnknownOption is returned when the command line names an option that was never declared.
	ErrUnknownOption = zerr.New("unknown option")

	// ErrOptionExpectsValue is returned when a valued option is given without a value.
	ErrOptionExpectsValue = zerr.New("option expects a value")

	// ErrOptionTakesNoValue is returned when a switch option is given a value.
	ErrOptionTakesNoValue = zerr.New("option takes no value")

	// ErrInvalidOptionDefault is returned when an option default is neither a bool nor a string.
	ErrInvalidOptionDefault = zerr.New("option default must be a bool or a string")

	// ErrScriptFailed is returned when a checked script exits with a nonzero code.
	ErrScriptFailed = zerr.New("script failed")

	// ErrUnknownOutputMode is returned for output policies other than line, deferred and mute.
	ErrUnknownOutputMode = zerr.New("unknown output mode")

	// ErrAmbiguousVariable is returned when a word character directly follows a `$`.
	ErrAmbiguousVariable = zerr.New("ambiguous variable reference")

	// ErrUnterminatedExpression is returned when no closing parenthesis ends a valid expression.
	ErrUnterminatedExpression = zerr.New("unterminated expression")

	// ErrEmptyExpression is returned for `$()` with nothing but blanks inside.
	ErrEmptyExpression = zerr.New("empty expression")

	// ErrMissingQuote is returned when a quoted escape lacks its closing quote.
	ErrMissingQuote = zerr.New("missing closing quote")

	// ErrExpression is returned when an expression fails to evaluate.
	ErrExpression = zerr.New("expression evaluation failed")

	// ErrMachfileNotFound is returned when no build description can be located.
	ErrMachfileNotFound = zerr.New("no Machfile found")

	// ErrInvalidMachfile is returned when a build description cannot be decoded.
	ErrInvalidMachfile = zerr.New("invalid Machfile")
)
