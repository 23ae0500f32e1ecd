package model

import (
	"fmt"
	"reflect"

	"golang.org/x/text/cases"
)

// DefaultKeyName is the key member name used when none is configured.
const DefaultKeyName = "Id"

// Member describes one entity member and the column it maps to.
type Member struct {
	// Name is the logical member name used in predicates.
	Name string

	// Column is the physical column name. Defaults to Name.
	Column string

	// Kind is the member's Go kind. Boolean members render as an implicit
	// "is true" comparison.
	Kind reflect.Kind

	// Length is the declared column length (0 = unspecified).
	Length int

	// Serialized marks members stored as a serialized blob.
	Serialized bool
}

// Descriptor maps an entity's logical member names to physical columns.
//
// A Descriptor is built once per entity type and is read-only afterwards,
// so it is safe to share across goroutines.
type Descriptor struct {
	name    string
	set     string
	members map[string]Member
	order   []string
	key     string // key member name, "" when no member matches
}

// Option configures New.
type Option func(*options)

type options struct {
	keyName string
}

// WithKeyName sets the member/column name that identifies the key member.
// Matching is case-insensitive.
func WithKeyName(name string) Option {
	return func(o *options) { o.keyName = name }
}

// New builds a Descriptor for the entity name stored in set.
// Members keep their declaration order. Duplicate member names or columns
// are rejected.
func New(name, set string, members []Member, opts ...Option) (*Descriptor, error) {
	o := options{keyName: DefaultKeyName}
	for _, opt := range opts {
		opt(&o)
	}

	if name == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if set == "" {
		set = name
	}

	d := &Descriptor{
		name:    name,
		set:     set,
		members: make(map[string]Member, len(members)),
		order:   make([]string, 0, len(members)),
	}

	columns := make(map[string]string, len(members))
	for _, m := range members {
		if m.Name == "" {
			return nil, fmt.Errorf("model %s: member name is required", name)
		}
		if m.Column == "" {
			m.Column = m.Name
		}
		if _, dup := d.members[m.Name]; dup {
			return nil, fmt.Errorf("model %s: duplicate member %q", name, m.Name)
		}
		if other, dup := columns[m.Column]; dup {
			return nil, fmt.Errorf("model %s: members %q and %q both map to column %q", name, other, m.Name, m.Column)
		}
		columns[m.Column] = m.Name
		d.members[m.Name] = m
		d.order = append(d.order, m.Name)
	}

	// The key member is the one whose column matches the key name,
	// compared case-insensitively.
	fold := cases.Fold()
	want := fold.String(o.keyName)
	for _, memberName := range d.order {
		if fold.String(d.members[memberName].Column) == want {
			d.key = memberName
			break
		}
	}

	return d, nil
}

// Name returns the entity name.
func (d *Descriptor) Name() string { return d.name }

// Set returns the table/collection the entity is stored in.
func (d *Descriptor) Set() string { return d.set }

// Resolve returns the column mapped to member.
// Unknown members fail with an *UnmappedMemberError.
func (d *Descriptor) Resolve(member string) (string, error) {
	m, ok := d.members[member]
	if !ok {
		return "", &UnmappedMemberError{Model: d.name, Member: member}
	}
	return m.Column, nil
}

// Lookup returns the member named name.
func (d *Descriptor) Lookup(name string) (Member, bool) {
	m, ok := d.members[name]
	return m, ok
}

// Members returns all members in declaration order.
func (d *Descriptor) Members() []Member {
	out := make([]Member, len(d.order))
	for i, name := range d.order {
		out[i] = d.members[name]
	}
	return out
}

// MemberForColumn returns the member mapped to column.
func (d *Descriptor) MemberForColumn(column string) (Member, bool) {
	for _, name := range d.order {
		if m := d.members[name]; m.Column == column {
			return m, true
		}
	}
	return Member{}, false
}

// Key returns the key member, if any.
func (d *Descriptor) Key() (Member, bool) {
	if d.key == "" {
		return Member{}, false
	}
	return d.members[d.key], true
}

// KeyColumn returns the key member's column, or "" when there is none.
func (d *Descriptor) KeyColumn() string {
	m, ok := d.Key()
	if !ok {
		return ""
	}
	return m.Column
}
