package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAndNormalizeRole(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Owner", "owner", true},
		{"staff", "staff", true},
		{"VIEWER", "viewer", true},
		{"", "owner", true},
		{"unknown", "unknown", false},
	}

	for _, c := range cases {
		got, ok := ValidateAndNormalizeRole(c.in)
		assert.Equal(t, c.want, got, c.in)
		assert.Equal(t, c.ok, ok, c.in)
	}
}

func TestCanWrite(t *testing.T) {
	assert.True(t, CanWrite("owner"))
	assert.True(t, CanWrite(""))
	assert.True(t, CanWrite("Staff"))
	assert.False(t, CanWrite("viewer"))
	assert.False(t, CanWrite("admin"))
}

func TestCreatePagination(t *testing.T) {
	p := CreatePagination(25, 0, 0)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 3, p.TotalPages)

	p = CreatePagination(0, 2, 500)
	assert.Equal(t, MaxPageSize, p.PageSize)
	assert.Equal(t, 0, p.TotalPages)
}

func TestStringHelpers(t *testing.T) {
	assert.Equal(t, "b", FirstNonEmpty("", "  ", " b ", "c"))
	assert.Equal(t, "", FirstNonEmpty())

	s := "  Kopi "
	TrimPtr(&s)
	assert.Equal(t, "Kopi", s)
	TrimPtr(nil)
}
