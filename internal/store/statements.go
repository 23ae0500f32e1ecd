package store

import (
	"fmt"
	"strings"

	"github.com/roach88/predsql/internal/dialect"
	"github.com/roach88/predsql/internal/model"
)

// Statements are the statement templates for one entity.
type Statements struct {
	// RowCount counts every row in the set.
	RowCount string

	// GetByKey selects one row by key. Empty when the entity has no key.
	GetByKey string

	// KeyParameter is the parameter name GetByKey binds.
	KeyParameter string

	// GetAll selects every row in the set.
	GetAll string

	// where is "SELECT * FROM <set> WHERE " and takes the rendered fragment.
	where string
}

// PrepareStatements builds the statements for d in dialect f.
func PrepareStatements(f *dialect.Fragments, d *model.Descriptor) Statements {
	set := f.Column(d.Set())

	s := Statements{
		RowCount: fmt.Sprintf("SELECT COUNT(*) FROM %s", set),
		GetAll:   fmt.Sprintf("SELECT * FROM %s", set),
		where:    fmt.Sprintf("SELECT * FROM %s WHERE ", set),
	}

	if key := d.KeyColumn(); key != "" {
		s.KeyParameter = parameterName(key)
		s.GetByKey = fmt.Sprintf("SELECT * FROM %s WHERE %s = %s",
			set, f.Column(key), f.Placeholder(s.KeyParameter))
	}
	return s
}

// Where returns the select statement filtered by fragment.
func (s Statements) Where(fragment string) string {
	return s.where + fragment
}

// parameterName makes a column usable as a parameter name.
func parameterName(column string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, column)
}
