// SPDX-License-Identifier: MPL-2.0

package serverconfig

import "strconv"

// Modification references one workshop item by id, with an optional name
// used only for display.
type Modification struct {
	id      uint32
	name    string
	hasName bool
}

// NewModification returns a named modification.
func NewModification(id uint32, name string) Modification {
	return Modification{id: id, name: name, hasName: true}
}

// ModificationFromID returns an unnamed modification.
func ModificationFromID(id uint32) Modification {
	return Modification{id: id}
}

// ID returns the workshop item id.
func (m Modification) ID() uint32 { return m.id }

// Name returns the display name, if one was configured.
func (m Modification) Name() (string, bool) { return m.name, m.hasName }

// DisplayName returns the configured name, or the decimal id when unnamed.
func (m Modification) DisplayName() string {
	if m.hasName && m.name != "" {
		return m.name
	}
	return strconv.FormatUint(uint64(m.id), 10)
}

// String returns "<id>" or "<id> (<name>)".
func (m Modification) String() string {
	id := strconv.FormatUint(uint64(m.id), 10)
	if m.hasName && m.name != "" {
		return id + " (" + m.name + ")"
	}
	return id
}
