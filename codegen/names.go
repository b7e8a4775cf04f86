package codegen

import (
	"strconv"
	"strings"
)

// NameRegistry hands out variable names that do not clash with the names
// it has already seen. It lives for one generation batch.
type NameRegistry struct {
	taken map[string]bool
}

func NewNameRegistry(reserved ...string) *NameRegistry {
	r := &NameRegistry{taken: make(map[string]bool)}
	for _, name := range reserved {
		r.Reserve(name)
	}
	return r
}

// Reserve marks name as used without returning a variant.
func (r *NameRegistry) Reserve(name string) {
	r.taken[name] = true
}

// Next returns name if it is free and otherwise name followed by the
// integer after the highest suffix already registered for it, so value,
// value, value yields value, value1, value2. The result is registered.
func (r *NameRegistry) Next(name string) string {
	if !r.taken[name] {
		r.taken[name] = true
		return name
	}
	highest := 0
	for taken := range r.taken {
		suffix, ok := strings.CutPrefix(taken, name)
		if !ok || suffix == "" {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil && n > highest && suffix[0] != '-' && suffix[0] != '+' {
			highest = n
		}
	}
	next := name + strconv.Itoa(highest+1)
	r.taken[next] = true
	return next
}
