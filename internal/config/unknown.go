package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// LoadWithWarnings parses JSON config data and returns any unknown field warnings.
// The path is used only to label parse errors.
func LoadWithWarnings(path string, data []byte) (*Config, []string, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	warnings := detectUnknownFields(data)

	return &cfg, warnings, nil
}

// detectUnknownFields compares raw JSON with known struct fields.
// Warnings are sorted so repeated loads report them in the same order.
func detectUnknownFields(data []byte) []string {
	var warnings []string

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return []string{"internal: failed to re-parse config for unknown field detection"}
	}

	knownTopLevel := getJSONFields(reflect.TypeOf(Config{}))
	for key := range raw {
		if key == "$schema" {
			continue
		}
		if !knownTopLevel[key] {
			warnings = append(warnings, fmt.Sprintf("unknown field %q at root level (ignored)", key))
		}
	}

	if convRaw, ok := raw["converters"]; ok {
		warnings = append(warnings, checkNamedUnknownFields(convRaw, "converter", reflect.TypeOf(ConverterConfig{}))...)
	}
	if formatsRaw, ok := raw["formats"]; ok {
		warnings = append(warnings, checkNamedUnknownFields(formatsRaw, "format", reflect.TypeOf(FormatConfig{}))...)
	}

	sort.Strings(warnings)
	return warnings
}

// checkNamedUnknownFields inspects a map of named entries (converters, formats)
// and reports keys that the entry type does not declare.
func checkNamedUnknownFields(data json.RawMessage, kind string, t reflect.Type) []string {
	var warnings []string

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return []string{fmt.Sprintf("internal: failed to re-parse %ss for unknown field detection", kind)}
	}

	known := getJSONFields(t)
	for name, entryRaw := range entries {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(entryRaw, &fields); err != nil {
			continue
		}
		for key := range fields {
			if !known[key] {
				warnings = append(warnings, fmt.Sprintf("unknown field %q in %s %q (ignored)", key, kind, name))
			}
		}
	}

	return warnings
}

// getJSONFields returns a map of known JSON field names for a struct type.
func getJSONFields(t reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name != "" {
			fields[name] = true
		}
	}
	return fields
}
