package driver

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"toyc/internal/interp"
)

// Inputs are the externally supplied values for a direct-execution run:
// initial variable values and per-identifier read queues.
type Inputs struct {
	Vars  map[string]interp.Value
	Reads map[string][]interp.Value
	// MaxIterations overrides the repeat-until loop cap; 0 keeps the
	// default.
	MaxIterations int
}

// manifest is the TOML shape of an inputs file:
//
//	max_iterations = 500
//
//	[vars]
//	x = "3.5"
//	y = 2
//
//	[reads]
//	n = ["1", "2.5"]
//
// Values may be TOML numbers or strings; strings infer int vs float from
// the presence of a decimal point.
type manifest struct {
	MaxIterations int            `toml:"max_iterations"`
	Vars          map[string]any `toml:"vars"`
	Reads         map[string]any `toml:"reads"`
}

// LoadInputs reads a TOML inputs manifest.
func LoadInputs(path string) (*Inputs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseInputs(string(data))
}

// ParseInputs parses TOML manifest text.
func ParseInputs(text string) (*Inputs, error) {
	var m manifest
	if err := toml.Unmarshal([]byte(text), &m); err != nil {
		return nil, fmt.Errorf("inputs manifest: %w", err)
	}

	in := &Inputs{
		Vars:          make(map[string]interp.Value),
		Reads:         make(map[string][]interp.Value),
		MaxIterations: m.MaxIterations,
	}
	for name, raw := range m.Vars {
		v, err := convertValue(raw)
		if err != nil {
			return nil, fmt.Errorf("inputs manifest: vars.%s: %w", name, err)
		}
		in.Vars[name] = v
	}
	for name, raw := range m.Reads {
		list, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("inputs manifest: reads.%s: expected an array", name)
		}
		for i, item := range list {
			v, err := convertValue(item)
			if err != nil {
				return nil, fmt.Errorf("inputs manifest: reads.%s[%d]: %w", name, i, err)
			}
			in.Reads[name] = append(in.Reads[name], v)
		}
	}
	return in, nil
}

// SetVar parses a name=value override (the --var flag) into the inputs.
func (in *Inputs) SetVar(spec string) error {
	name, value, ok := strings.Cut(spec, "=")
	if !ok {
		return fmt.Errorf("invalid variable %q: expected name=value", spec)
	}
	v, err := interp.ParseValue(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", name, err)
	}
	if in.Vars == nil {
		in.Vars = make(map[string]interp.Value)
	}
	in.Vars[strings.TrimSpace(name)] = v
	return nil
}

func convertValue(raw any) (interp.Value, error) {
	switch raw := raw.(type) {
	case string:
		return interp.ParseValue(raw)
	case int64:
		return interp.IntValue(raw), nil
	case float64:
		return interp.FloatValue(raw), nil
	default:
		return interp.Value{}, fmt.Errorf("unsupported value type %T", raw)
	}
}
