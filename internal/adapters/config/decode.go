package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"go.trai.ch/mach/internal/core/domain"
	"go.trai.ch/zerr"
)

func decode(input, result any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      result,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

func decodeMachfile(raw map[string]any) (*MachfileDTO, error) {
	var dto MachfileDTO
	if err := decode(raw, &dto); err != nil {
		return nil, err
	}
	return &dto, nil
}

func toDomain(dto *MachfileDTO) (*domain.Machfile, error) {
	mf := &domain.Machfile{
		Variables: make([]domain.VariableDecl, 0, len(dto.Variables)),
		Rules:     make([]domain.RuleDecl, 0, len(dto.Rules)),
	}

	for i, v := range dto.Variables {
		if v.Name == "" {
			return nil, zerr.With(zerr.New("variable without name"), "index", i)
		}
		if v.Expr != "" && v.Value != nil {
			return nil, zerr.With(zerr.New("variable has both value and expr"), "variable", v.Name)
		}
		mf.Variables = append(mf.Variables, domain.VariableDecl(v))
	}

	for _, r := range dto.Rules {
		decl, err := ruleDecl(r)
		if err != nil {
			return nil, err
		}
		mf.Rules = append(mf.Rules, decl)
	}
	return mf, nil
}

func ruleDecl(r RuleDTO) (domain.RuleDecl, error) {
	if r.Target == "" {
		return domain.RuleDecl{}, zerr.New("rule without target")
	}

	decl := domain.RuleDecl{
		Target: r.Target,
		Help:   r.Help,
		Options: domain.ScriptOptions{
			Echo:     r.Echo,
			Check:    r.Check,
			Env:      r.Env,
			Output:   r.Output,
			Shell:    r.Shell,
			Encoding: r.Encoding,
		},
	}

	if r.Script != "" {
		decl.Scripts = append(decl.Scripts, r.Script)
	}
	decl.Scripts = append(decl.Scripts, r.Scripts...)

	for _, in := range r.Inputs {
		input, err := inputDecl(in)
		if err != nil {
			return domain.RuleDecl{}, zerr.With(err, "rule", r.Target)
		}
		decl.Inputs = append(decl.Inputs, input)
	}
	return decl, nil
}

// inputDecl accepts a name or an inline rule table.
func inputDecl(in any) (domain.InputDecl, error) {
	switch v := in.(type) {
	case string:
		return domain.InputDecl{Name: v}, nil
	case map[string]any:
		var nested RuleDTO
		if err := decode(v, &nested); err != nil {
			return domain.InputDecl{}, err
		}
		decl, err := ruleDecl(nested)
		if err != nil {
			return domain.InputDecl{}, err
		}
		return domain.InputDecl{Name: decl.Target, Rule: &decl}, nil
	}
	return domain.InputDecl{}, zerr.With(zerr.New("input must be a name or a rule"), "input", fmt.Sprint(in))
}
