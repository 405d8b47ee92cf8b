package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// YAMLConfig is a kong.ConfigurationLoader for YAML files. Top-level keys
// set flags of any command; a mapping keyed by a command name sets that
// command's flags only and wins over top-level keys. Dashes and underscores
// in keys are interchangeable.
//
//	verbose: true
//	scrape:
//	  llm-provider: gemini
//	  max_table_length: 8000
//	upload:
//	  batch-size: 50
func YAMLConfig(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	return kong.ResolverFunc(func(_ *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		if parent != nil && parent.Command != nil {
			if section, ok := values[parent.Command.Name].(map[string]any); ok {
				if v, ok := lookup(section, flag.Name); ok {
					return v, nil
				}
			}
		}
		if v, ok := lookup(values, flag.Name); ok {
			return v, nil
		}
		return nil, nil
	}), nil
}

// lookup finds name in values and returns scalars as strings for kong's mappers.
func lookup(values map[string]any, name string) (any, bool) {
	for _, key := range []string{name, strings.ReplaceAll(name, "-", "_")} {
		v, ok := values[key]
		if !ok || v == nil {
			continue
		}
		if _, nested := v.(map[string]any); nested {
			continue
		}
		return fmt.Sprint(v), true
	}
	return nil, false
}
