// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DecodeCUE compiles data as CUE source, unifies it with the schema
// definition (for example "#Config"), and decodes the result.
func DecodeCUE(schema []byte, definition string, data []byte, opts ...Option) (map[string]any, error) {
	o := applyOptions(opts)

	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	userValue := ctx.CompileBytes(data, cue.Filename(o.filename))
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), o.filename)
	}
	return unifyAndDecode(ctx, schema, definition, userValue, o.filename)
}

// DecodeValue validates a document already decoded by another parser
// against the schema definition and returns the normalized result.
func DecodeValue(schema []byte, definition string, doc any, opts ...Option) (map[string]any, error) {
	o := applyOptions(opts)

	ctx := cuecontext.New()
	userValue := ctx.Encode(doc)
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), o.filename)
	}
	return unifyAndDecode(ctx, schema, definition, userValue, o.filename)
}

func unifyAndDecode(ctx *cue.Context, schema []byte, definition string, userValue cue.Value, filename string) (map[string]any, error) {
	schemaValue := ctx.CompileBytes(schema, cue.Filename("schema.cue"))
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	root := schemaValue.LookupPath(cue.ParsePath(definition))
	if root.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", definition, root.Err())
	}

	unified := root.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, FormatError(err, filename)
	}

	var doc map[string]any
	if err := unified.Decode(&doc); err != nil {
		return nil, FormatError(err, filename)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
