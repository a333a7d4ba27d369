package models

import (
	"strings"
)

// Group - a named, ordered collection of entries, conventionally one bank.
// Entry names are unique within a group, compared case-insensitively.
type Group struct {
	Name    string
	Entries []Entry
}

func (g *Group) index(name string) int {
	for i, e := range g.Entries {
		if strings.EqualFold(e.Name, name) {
			return i
		}
	}
	return -1
}

// Lookup returns the entry whose name matches name case-insensitively.
func (g *Group) Lookup(name string) (Entry, bool) {
	if i := g.index(name); i >= 0 {
		return g.Entries[i], true
	}
	return Entry{}, false
}

// Put inserts e or overwrites the entry with the same name.
// An overwritten entry keeps its position and takes the spelling of e.
func (g *Group) Put(e Entry) (replaced bool) {
	if i := g.index(e.Name); i >= 0 {
		g.Entries[i] = e
		return true
	}
	g.Entries = append(g.Entries, e)
	return false
}

// Remove deletes the entry matching name and reports whether it existed.
func (g *Group) Remove(name string) bool {
	i := g.index(name)
	if i < 0 {
		return false
	}
	g.Entries = append(g.Entries[:i], g.Entries[i+1:]...)
	return true
}

// Len returns the number of entries in the group.
func (g *Group) Len() int {
	return len(g.Entries)
}

func (g *Group) clone() *Group {
	return &Group{Name: g.Name, Entries: append([]Entry(nil), g.Entries...)}
}

// Document - the whole persisted state: groups keyed by exact name, in insertion order.
// A Document never holds an empty group.
type Document struct {
	groups []*Group
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

func (d *Document) index(group string) int {
	for i, g := range d.groups {
		if g.Name == group {
			return i
		}
	}
	return -1
}

// Group returns the group with the exact name group.
func (d *Document) Group(group string) (*Group, bool) {
	if i := d.index(group); i >= 0 {
		return d.groups[i], true
	}
	return nil, false
}

// Lookup returns the entry name in group.
func (d *Document) Lookup(group, name string) (Entry, bool) {
	g, ok := d.Group(group)
	if !ok {
		return Entry{}, false
	}
	return g.Lookup(name)
}

// Put upserts e into group, creating the group when missing.
func (d *Document) Put(group string, e Entry) (replaced bool) {
	g, ok := d.Group(group)
	if !ok {
		g = &Group{Name: group}
		d.groups = append(d.groups, g)
	}
	return g.Put(e)
}

// RemoveEntry deletes name from group and drops the group once it is empty.
func (d *Document) RemoveEntry(group, name string) bool {
	i := d.index(group)
	if i < 0 || !d.groups[i].Remove(name) {
		return false
	}
	if d.groups[i].Len() == 0 {
		d.groups = append(d.groups[:i], d.groups[i+1:]...)
	}
	return true
}

// RemoveGroup deletes the whole group.
func (d *Document) RemoveGroup(group string) bool {
	i := d.index(group)
	if i < 0 {
		return false
	}
	d.groups = append(d.groups[:i], d.groups[i+1:]...)
	return true
}

// Clear removes every group.
func (d *Document) Clear() {
	d.groups = nil
}

// Len returns the number of groups.
func (d *Document) Len() int {
	return len(d.groups)
}

// Total returns the number of entries across all groups.
func (d *Document) Total() int {
	n := 0
	for _, g := range d.groups {
		n += g.Len()
	}
	return n
}

// IsEmpty reports whether the document holds no groups.
func (d *Document) IsEmpty() bool {
	return len(d.groups) == 0
}

// Groups returns a copy of the groups in insertion order.
func (d *Document) Groups() []Group {
	out := make([]Group, 0, len(d.groups))
	for _, g := range d.groups {
		out = append(out, *g.clone())
	}
	return out
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	c := &Document{}
	for _, g := range d.groups {
		c.groups = append(c.groups, g.clone())
	}
	return c
}

// Map returns the document as nested maps, dropping order.
func (d *Document) Map() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(d.groups))
	for _, g := range d.groups {
		entries := make(map[string]float64, len(g.Entries))
		for _, e := range g.Entries {
			entries[e.Name] = e.Percent
		}
		out[g.Name] = entries
	}
	return out
}
