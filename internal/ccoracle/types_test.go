package ccoracle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ccsurface/c2x/internal/parser"
)

func TestBuiltinTypeFor_KnownSpellingsResolveLP64Widths(t *testing.T) {
	cases := []struct {
		spelling string
		size     int64
		kind     parser.TypeKind
	}{
		{"int", 4, parser.TypeKindBuiltinInt},
		{"long", 8, parser.TypeKindBuiltinInt},
		{"double", 8, parser.TypeKindBuiltinFloat},
		{"_Bool", 1, parser.TypeKindBool},
		{"void", 0, parser.TypeKindVoid},
	}
	for _, c := range cases {
		typ := builtinTypeFor(c.spelling)
		assert.Equal(t, c.size, typ.SizeOf(), c.spelling)
		assert.Equal(t, c.kind, typ.Kind(), c.spelling)
	}
}

func TestBuiltinTypeFor_UnknownSpellingFallsBackRatherThanPanicking(t *testing.T) {
	typ := builtinTypeFor("struct Widget")
	assert.Equal(t, "struct Widget", typ.Spelling())
	assert.Equal(t, parser.TypeKindBuiltinInt, typ.Kind())
	assert.Equal(t, int64(4), typ.SizeOf())
}

func TestPointerType_WrapsPointeeAtPointerWidth(t *testing.T) {
	inner := builtinTypeFor("int")
	ptr := &pointerType{pointee: inner}

	assert.Equal(t, parser.TypeKindPointer, ptr.Kind())
	assert.Equal(t, int64(8), ptr.SizeOf())
	assert.Same(t, inner, ptr.PointeeType())
}
