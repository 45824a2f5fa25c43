// SPDX-License-Identifier: MPL-2.0

package serverconfig

import (
	"maps"
	"slices"
)

// Config maps server names to servers. Names are case-sensitive.
type Config struct {
	servers map[string]Server
}

// New returns a Config owning a copy of servers.
func New(servers map[string]Server) Config {
	return Config{servers: maps.Clone(servers)}
}

// Get returns the named server. The boolean is false when no server has
// that name.
func (c Config) Get(name string) (Server, bool) {
	s, ok := c.servers[name]
	return s, ok
}

// Servers returns a copy of the name to server mapping.
func (c Config) Servers() map[string]Server {
	if c.servers == nil {
		return map[string]Server{}
	}
	return maps.Clone(c.servers)
}

// Names returns the server names in sorted order.
func (c Config) Names() []string {
	return slices.Sorted(maps.Keys(c.servers))
}

// Len returns the number of servers.
func (c Config) Len() int { return len(c.servers) }
