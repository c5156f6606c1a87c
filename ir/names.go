// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gogpu/spirvcross/diag"
)

// DefaultName is the identifier used for an unnamed id.
func DefaultName(id ID) string {
	return fmt.Sprintf("_%d", id)
}

// DefaultMemberName is the identifier used for an unnamed struct member.
func DefaultMemberName(index int) string {
	return fmt.Sprintf("_m%d", index)
}

// Name returns the debug name of id, or "" when it has none.
func (m *Module) Name(id ID) string {
	if meta, ok := m.meta[id]; ok {
		return meta.Name
	}
	return ""
}

// MemberName returns the debug name of member index of id, or "".
func (m *Module) MemberName(id ID, index int) string {
	if meta, ok := m.meta[id]; ok && index < len(meta.Members) {
		return meta.Members[index].Name
	}
	return ""
}

// ValidateIdentifier checks that name is a plain identifier:
// [A-Za-z_][A-Za-z0-9_]*.
func ValidateIdentifier(name string) error {
	if name == "" {
		return diag.New(diag.InvalidIdentifier, "identifier is empty")
	}
	for i, c := range name {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return diag.Errorf(diag.InvalidIdentifier, "identifier %q starts with a digit", name)
			}
		default:
			return diag.Errorf(diag.InvalidIdentifier, "identifier %q contains %q", name, c)
		}
	}
	return nil
}

// SetName names id. Names that are reserved or already used by another
// entity, including the implicit _N names, get the first free suffix _1,
// _2, ... The stored name is returned.
func (m *Module) SetName(id ID, name string, reserved func(string) bool) (string, error) {
	if err := ValidateIdentifier(name); err != nil {
		return "", err
	}
	if !m.Live(id) {
		return "", diag.Errorf(diag.InvalidResource, "id %d does not name an entity", id)
	}
	resolved := uniqueName(name, func(candidate string) bool {
		return (reserved != nil && reserved(candidate)) || m.nameInUse(candidate, id)
	})
	m.Meta(id).Name = resolved
	return resolved, nil
}

// SetMemberName names member index of struct type id, avoiding reserved
// words and the names of sibling members.
func (m *Module) SetMemberName(id ID, index uint32, name string, reserved func(string) bool) (string, error) {
	if err := ValidateIdentifier(name); err != nil {
		return "", err
	}
	st, err := m.checkMember(id, index)
	if err != nil {
		return "", err
	}
	resolved := uniqueName(name, func(candidate string) bool {
		if reserved != nil && reserved(candidate) {
			return true
		}
		for i := range st.Members {
			if i == int(index) {
				continue
			}
			sibling := m.MemberName(id, i)
			if sibling == "" {
				sibling = DefaultMemberName(i)
			}
			if sibling == candidate {
				return true
			}
		}
		return false
	})
	m.Meta(id).member(index).Name = resolved
	return resolved, nil
}

// nameInUse reports whether a live entity other than except is called
// name, either explicitly or through its default _N name.
func (m *Module) nameInUse(name string, except ID) bool {
	for id, meta := range m.meta {
		if id != except && meta.Name == name && m.Live(id) {
			return true
		}
	}
	if n, ok := strings.CutPrefix(name, "_"); ok {
		if v, err := strconv.ParseUint(n, 10, 32); err == nil {
			other := ID(v)
			if other != except && m.Live(other) && m.Name(other) == "" {
				return true
			}
		}
	}
	return false
}

// FreshName returns base, or base with the first free suffix, such that
// the result is not reserved, not taken and not the name of a live
// entity. The name is not recorded.
func (m *Module) FreshName(base string, reserved func(string) bool) string {
	return uniqueName(base, func(candidate string) bool {
		return (reserved != nil && reserved(candidate)) || m.nameInUse(candidate, 0)
	})
}

// uniqueName suffixes base until taken rejects it. Trailing underscores
// are dropped before the suffix so the result never holds "__".
func uniqueName(base string, taken func(string) bool) string {
	candidate := base
	stem := strings.TrimRight(base, "_")
	for i := 1; taken(candidate); i++ {
		candidate = fmt.Sprintf("%s_%d", stem, i)
	}
	return candidate
}

// Named returns the ids that carry a debug name, in ascending order.
func (m *Module) Named() []ID {
	ids := make([]ID, 0, len(m.meta))
	for id, meta := range m.meta {
		if meta.Name != "" {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
