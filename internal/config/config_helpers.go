package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// compileCUE loads and compiles a CUE file at the given path.
func compileCUE(path string) (cue.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to read config: %w", err)
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("invalid config: %v", err)
	}
	return v, nil
}

func field(v cue.Value, name string) (cue.Value, bool) {
	f := v.LookupPath(cue.ParsePath(name))
	return f, f.Exists()
}

func decodeString(v cue.Value, name, qualified string, dst *string) error {
	f, ok := field(v, name)
	if !ok {
		return nil
	}
	if f.Kind() != cue.StringKind {
		return fmt.Errorf("invalid type for field: %s (expected string)", qualified)
	}
	return f.Decode(dst)
}

func decodeBool(v cue.Value, name, qualified string, dst *bool) error {
	f, ok := field(v, name)
	if !ok {
		return nil
	}
	if f.Kind() != cue.BoolKind {
		return fmt.Errorf("invalid type for field: %s (expected bool)", qualified)
	}
	return f.Decode(dst)
}

func decodeInt(v cue.Value, name, qualified string, dst *int) error {
	f, ok := field(v, name)
	if !ok {
		return nil
	}
	if f.Kind() != cue.IntKind {
		return fmt.Errorf("invalid type for field: %s (expected int)", qualified)
	}
	return f.Decode(dst)
}

func decodeStrings(v cue.Value, name, qualified string, dst *[]string) error {
	f, ok := field(v, name)
	if !ok {
		return nil
	}
	if f.Kind() != cue.ListKind {
		return fmt.Errorf("invalid type for field: %s (expected list of strings)", qualified)
	}
	var out []string
	if err := f.Decode(&out); err != nil {
		return fmt.Errorf("invalid value for %s: %v", qualified, err)
	}
	*dst = out
	return nil
}
