// SPDX-License-Identifier: MPL-2.0

package serverconfig

import "slices"

// Server is a named server's list of modifications, in configuration order.
// Duplicate ids are preserved.
type Server struct {
	mods []Modification
}

// NewServer returns a server owning a copy of mods.
func NewServer(mods ...Modification) Server {
	return Server{mods: slices.Clone(mods)}
}

// Mods returns the modifications in configuration order.
func (s Server) Mods() []Modification { return slices.Clone(s.mods) }

// Len returns the number of configured modifications, duplicates included.
func (s Server) Len() int { return len(s.mods) }

// ModIDs returns the set of distinct modification ids.
func (s Server) ModIDs() map[uint32]struct{} {
	ids := make(map[uint32]struct{}, len(s.mods))
	for _, m := range s.mods {
		ids[m.id] = struct{}{}
	}
	return ids
}

// UniqueMods returns the first occurrence of each id, in configuration order.
func (s Server) UniqueMods() []Modification {
	seen := make(map[uint32]struct{}, len(s.mods))
	unique := make([]Modification, 0, len(s.mods))
	for _, m := range s.mods {
		if _, dup := seen[m.id]; dup {
			continue
		}
		seen[m.id] = struct{}{}
		unique = append(unique, m)
	}
	return unique
}
