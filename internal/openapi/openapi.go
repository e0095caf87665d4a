// Package openapi parses OpenAPI/Swagger specifications and renders
// them as markdown chunks with structured section metadata. Endpoint
// and info sections feed the retrieval reranker's section signal.
package openapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Spec is a parsed OpenAPI or Swagger specification.
type Spec struct {
	raw map[string]any
}

// Parse decodes a specification from JSON or YAML text and validates
// that it carries an openapi or swagger version field.
func Parse(text string) (*Spec, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
			return nil, fmt.Errorf("parsing spec: invalid JSON/YAML: %w", err)
		}
	}

	if _, ok := raw["openapi"]; !ok {
		if _, ok := raw["swagger"]; !ok {
			return nil, fmt.Errorf("parsing spec: missing openapi/swagger field")
		}
	}

	return &Spec{raw: raw}, nil
}

// Info summarises the key fields of a specification.
type Info struct {
	Title          string
	Version        string
	Description    string
	EndpointCount  int
	SchemaCount    int
	OpenAPIVersion string
}

// Info extracts the specification's summary information.
func (s *Spec) Info() Info {
	info := s.section("info")

	endpoints := 0
	for _, methods := range s.section("paths") {
		if m, ok := methods.(map[string]any); ok {
			for _, details := range m {
				if _, ok := details.(map[string]any); ok {
					endpoints++
				}
			}
		}
	}

	specVersion, _ := s.raw["openapi"].(string)
	if specVersion == "" {
		specVersion, _ = s.raw["swagger"].(string)
	}

	return Info{
		Title:          str(info, "title"),
		Version:        str(info, "version"),
		Description:    str(info, "description"),
		EndpointCount:  endpoints,
		SchemaCount:    len(s.schemas()),
		OpenAPIVersion: specVersion,
	}
}

// section returns a top-level map section, never nil.
func (s *Spec) section(name string) map[string]any {
	if m, ok := s.raw[name].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// schemas returns components.schemas, never nil.
func (s *Spec) schemas() map[string]any {
	components := s.section("components")
	if m, ok := components["schemas"].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// sortedKeys returns map keys in deterministic order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func str(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

func boolVal(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}

// joinNonEmpty joins parts with sep, skipping empties.
func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
