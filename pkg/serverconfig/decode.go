// SPDX-License-Identifier: MPL-2.0

package serverconfig

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cast"
)

const (
	// KeyServers is the top-level key holding the server mapping.
	KeyServers = "servers"
	// KeyMods is the per-server key holding the modification list.
	KeyMods = "mods"
	// KeyID is the id field of a modification entry written as a mapping.
	KeyID = "id"
	// KeyName is the optional name field of a modification entry.
	KeyName = "name"
)

var (
	// ErrInvalidServer is the sentinel error wrapped by InvalidServerError.
	ErrInvalidServer = errors.New("invalid server")
	// ErrInvalidModification is the sentinel error wrapped by InvalidModificationError.
	ErrInvalidModification = errors.New("invalid modification")
)

type (
	// InvalidServerError is returned when a server entry does not have the
	// {mods: [...]} shape.
	InvalidServerError struct {
		Server string
		Reason string
	}

	// InvalidModificationError is returned when a modification entry is neither
	// a bare number nor an {id, name?} mapping.
	InvalidModificationError struct {
		Server string
		Index  int
		Value  any
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidServerError) Error() string {
	return fmt.Sprintf("server %q: %s", e.Server, e.Reason)
}

// Unwrap returns ErrInvalidServer for errors.Is() compatibility.
func (e *InvalidServerError) Unwrap() error { return ErrInvalidServer }

// Error implements the error interface.
func (e *InvalidModificationError) Error() string {
	return fmt.Sprintf("server %q: mods[%d] (%v): %s", e.Server, e.Index, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidModification for errors.Is() compatibility.
func (e *InvalidModificationError) Unwrap() error { return ErrInvalidModification }

// FromData builds a Config from already-parsed data of the shape
//
//	{servers: {<name>: {mods: [<id> | {id: <id>, name: <string>}, ...]}}}
//
// Missing "servers" or "mods" keys produce empty values. Duplicate ids are
// kept verbatim. Numbers may arrive as any integer or float type, or as
// decimal strings, depending on the decoder that produced data.
func FromData(data map[string]any) (Config, error) {
	raw, ok := data[KeyServers]
	if !ok || raw == nil {
		return New(nil), nil
	}

	serversMap, err := cast.ToStringMapE(raw)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %q must be a mapping of server names: %w", ErrInvalidServer, KeyServers, err)
	}

	servers := make(map[string]Server, len(serversMap))
	for name, rawServer := range serversMap {
		server, err := decodeServer(name, rawServer)
		if err != nil {
			return Config{}, err
		}
		servers[name] = server
	}
	return Config{servers: servers}, nil
}

func decodeServer(name string, raw any) (Server, error) {
	if raw == nil {
		return Server{}, nil
	}
	fields, err := cast.ToStringMapE(raw)
	if err != nil {
		return Server{}, &InvalidServerError{Server: name, Reason: "expected a mapping with a \"mods\" list"}
	}

	rawMods, ok := fields[KeyMods]
	if !ok || rawMods == nil {
		return Server{}, nil
	}
	entries, err := cast.ToSliceE(rawMods)
	if err != nil {
		return Server{}, &InvalidServerError{Server: name, Reason: "\"mods\" must be a list"}
	}

	mods := make([]Modification, 0, len(entries))
	for i, entry := range entries {
		mod, err := decodeModification(entry)
		if err != nil {
			return Server{}, &InvalidModificationError{Server: name, Index: i, Value: entry, Reason: err.Error()}
		}
		mods = append(mods, mod)
	}
	return Server{mods: mods}, nil
}

func decodeModification(raw any) (Modification, error) {
	switch v := raw.(type) {
	case map[string]any, map[any]any, map[string]string:
		fields, err := cast.ToStringMapE(v)
		if err != nil {
			return Modification{}, err
		}
		rawID, ok := fields[KeyID]
		if !ok {
			return Modification{}, errors.New("missing \"id\"")
		}
		id, err := toID(rawID)
		if err != nil {
			return Modification{}, err
		}
		rawName, ok := fields[KeyName]
		if !ok || rawName == nil {
			return ModificationFromID(id), nil
		}
		name, err := cast.ToStringE(rawName)
		if err != nil {
			return Modification{}, fmt.Errorf("\"name\": %w", err)
		}
		return NewModification(id, name), nil
	default:
		id, err := toID(v)
		if err != nil {
			return Modification{}, err
		}
		return ModificationFromID(id), nil
	}
}

// toID coerces a decoded number to a uint32 id. Fractions and values
// outside the uint32 range are rejected rather than truncated.
func toID(raw any) (uint32, error) {
	switch v := raw.(type) {
	case bool, nil:
		return 0, fmt.Errorf("id must be a number, got %T", raw)
	case float32:
		if float32(math.Trunc(float64(v))) != v {
			return 0, fmt.Errorf("id %v is not an integer", v)
		}
	case float64:
		if math.Trunc(v) != v {
			return 0, fmt.Errorf("id %v is not an integer", v)
		}
	}

	n, err := cast.ToInt64E(raw)
	if err != nil {
		return 0, fmt.Errorf("id must be a number: %w", err)
	}
	if n < 0 || n > math.MaxUint32 {
		return 0, fmt.Errorf("id %d out of range", n)
	}
	return uint32(n), nil
}
