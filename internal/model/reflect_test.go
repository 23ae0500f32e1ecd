package model

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	ID       int64
	Name     string    `column:"user_name,length=64"`
	IsActive bool      `column:"is_active"`
	Settings []byte    `column:",serialized"`
	Created  time.Time `column:"created_at"`
	Nickname *string
	Scratch  string `column:"-"`
	internal int
}

func (account) SetName() string { return "accounts" }

type plain struct {
	Id    int
	Label string
}

func TestDescribe(t *testing.T) {
	d, err := Describe[account]()
	require.NoError(t, err)

	assert.Equal(t, "account", d.Name())
	assert.Equal(t, "accounts", d.Set())
	assert.Equal(t, "ID", d.KeyColumn())

	var names []string
	for _, m := range d.Members() {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"ID", "Name", "IsActive", "Settings", "Created", "Nickname"}, names)

	name, ok := d.Lookup("Name")
	require.True(t, ok)
	assert.Equal(t, "user_name", name.Column)
	assert.Equal(t, 64, name.Length)
	assert.Equal(t, reflect.String, name.Kind)

	settings, ok := d.Lookup("Settings")
	require.True(t, ok)
	assert.Equal(t, "Settings", settings.Column)
	assert.True(t, settings.Serialized)

	nick, ok := d.Lookup("Nickname")
	require.True(t, ok)
	assert.Equal(t, reflect.String, nick.Kind, "pointer fields report the element kind")

	_, err = d.Resolve("Scratch")
	assert.ErrorIs(t, err, ErrUnmappedMember)
	_, err = d.Resolve("internal")
	assert.ErrorIs(t, err, ErrUnmappedMember)
}

func TestDescribe_PointerAndDefaultSet(t *testing.T) {
	d, err := FromType(reflect.TypeOf(&plain{}))
	require.NoError(t, err)
	assert.Equal(t, "plain", d.Set())
	assert.Equal(t, "Id", d.KeyColumn())
}

func TestFromType_Errors(t *testing.T) {
	type badLength struct {
		A string `column:"a,length=x"`
	}
	type badOption struct {
		A string `column:"a,unique"`
	}

	tests := []struct {
		name    string
		typ     reflect.Type
		wantErr string
	}{
		{"nil", nil, "nil type"},
		{"not a struct", reflect.TypeOf(42), "is not a struct"},
		{"bad length", reflect.TypeOf(badLength{}), `invalid length "x"`},
		{"unknown option", reflect.TypeOf(badOption{}), `unknown column option "unique"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromType(tt.typ)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMustDescribe_Panics(t *testing.T) {
	assert.Panics(t, func() { MustDescribe[int]() })
	assert.NotPanics(t, func() { MustDescribe[plain]() })
}
