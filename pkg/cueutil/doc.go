// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates configuration documents against an embedded CUE
// schema definition.
//
// Documents written in CUE (or JSON, which CUE accepts as-is) are compiled
// directly. Documents decoded by another parser, such as TOML or YAML, are
// encoded into CUE values first. Either way the document is unified with the
// schema definition, validated for concreteness, and decoded back into a
// generic map:
//
//	//go:embed config_schema.cue
//	var schema []byte
//
//	doc, err := cueutil.DecodeCUE(schema, "#Config", data, cueutil.WithFilename("config.cue"))
//	if err != nil {
//	    return nil, err // includes the field path, e.g. "config.cue: game.app: ..."
//	}
package cueutil
