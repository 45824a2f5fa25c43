// SPDX-License-Identifier: MPL-2.0

package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/modctl/modctl/pkg/cueutil"
)

const (
	// FormatCUE is CUE source, the format written by "modctl config init".
	FormatCUE Format = "cue"
	// FormatTOML is TOML 1.0.
	FormatTOML Format = "toml"
	// FormatYAML is YAML 1.2.
	FormatYAML Format = "yaml"
	// FormatJSON is JSON, compiled as CUE.
	FormatJSON Format = "json"

	schemaDefinition = "#Config"
)

//go:embed config_schema.cue
var configSchema []byte

// Format is a configuration file syntax.
type Format string

// searchExtensions lists config file extensions in lookup order.
var searchExtensions = []string{".cue", ".toml", ".yaml", ".yml", ".json"}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return FormatCUE, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnsupportedFormat, filepath.Ext(path), strings.Join(searchExtensions, ", "))
	}
}

// ParseFormat parses a --format flag value.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "yml" {
		f = FormatYAML
	}
	if !slices.Contains([]Format{FormatCUE, FormatTOML, FormatYAML, FormatJSON}, f) {
		return "", fmt.Errorf("%w: %q (valid: cue, toml, yaml, json)", ErrUnsupportedFormat, s)
	}
	return f, nil
}

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

// decodeDocument parses data in the format implied by path and validates it
// against the #Config schema.
func decodeDocument(path string, data []byte) (map[string]any, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	opts := []cueutil.Option{cueutil.WithFilename(path)}
	switch f {
	case FormatTOML:
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return cueutil.DecodeValue(configSchema, schemaDefinition, nonNil(raw), opts...)
	case FormatYAML:
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return cueutil.DecodeValue(configSchema, schemaDefinition, nonNil(raw), opts...)
	default:
		return cueutil.DecodeCUE(configSchema, schemaDefinition, data, opts...)
	}
}

// Encode renders cfg as a configuration document in format f. The output
// decodes back to an equivalent configuration.
func Encode(cfg *Config, f Format) ([]byte, error) {
	doc := Document(cfg)
	switch f {
	case FormatCUE:
		return encodeCUE(doc, "modctl configuration")
	case FormatTOML:
		return toml.Marshal(doc)
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatJSON:
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// GenerateCUE renders cfg as a CUE document.
func GenerateCUE(cfg *Config) string {
	out, err := Encode(cfg, FormatCUE)
	if err != nil {
		// Document only produces strings, bools, integers and nested maps or
		// lists of those, which always encode.
		panic(fmt.Sprintf("config: encode CUE: %v", err))
	}
	return string(out)
}

func encodeCUE(doc map[string]any, title string) ([]byte, error) {
	ctx := cuecontext.New()
	v := ctx.Encode(doc)
	if err := v.Err(); err != nil {
		return nil, err
	}

	file := &ast.File{}
	switch n := v.Syntax(cue.Concrete(true)).(type) {
	case *ast.StructLit:
		file.Decls = n.Elts
	case *ast.File:
		file = n
	}

	body, err := format.Node(file, format.Simplify())
	if err != nil {
		return nil, err
	}
	return append([]byte("// "+title+"\n\n"), body...), nil
}

func nonNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
