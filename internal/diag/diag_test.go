package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_OrderAndSeverity(t *testing.T) {
	c := NewCollector(nil)

	c.Add(Diagnostic{Severity: Info, Kind: AnonymousNamed, Name: "Anonymous_Union_u"})
	c.Add(Diagnostic{Severity: Warning, Kind: VariadicFunctionDropped, Name: "printf"})
	c.Add(Diagnostic{Severity: Error, Kind: UnsupportedType, Name: "long double"})

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, AnonymousNamed, items[0].Kind)
	assert.Equal(t, VariadicFunctionDropped, items[1].Kind)
	assert.Equal(t, UnsupportedType, items[2].Kind)
	assert.True(t, c.HasErrors())
}

func TestCollector_NoErrors(t *testing.T) {
	c := NewCollector(nil)
	c.Add(Diagnostic{Severity: Warning, Kind: MacroObjectNotTranspiled, Name: "FOO"})
	assert.False(t, c.HasErrors())
}

func TestCollector_Merge(t *testing.T) {
	a := NewCollector(nil)
	a.Add(Diagnostic{Severity: Info, Kind: AnonymousNamed, Name: "a"})

	b := NewCollector(nil)
	b.Add(Diagnostic{Severity: Error, Kind: UnsupportedType, Name: "b"})

	a.Merge(b)
	require.Len(t, a.Items(), 2)
	assert.True(t, a.HasErrors())
}

func TestLocation_String(t *testing.T) {
	assert.Equal(t, "<unknown>", Location{}.String())
	assert.Equal(t, "foo.h:3:7", Location{File: "foo.h", Line: 3, Column: 7}.String())
}
