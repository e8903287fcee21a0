// Package parsertest is an in-memory fake of the parser.Cursor/parser.Type
// contract, used to unit-test the Explorer and Mapper-C stages without a
// real C parser — the same role the teacher's generated-struct fixtures
// (testing/structs.go) play for benc's marshal round-trip tests.
package parsertest

import "github.com/ccsurface/c2x/internal/parser"

// Type is a fake parser.Type.
type Type struct {
	SpellingV    string
	CanonicalV   *Type
	KindV        parser.TypeKind
	SizeV        int64
	AlignV       int64
	ElementV     *Type
	ArrayLenV    int64
	PointeeV     *Type
	ConstV       bool
	DeclarationV *Cursor
	CallConvV    parser.CallingConvention
	ResultV      *Type
	ParametersV  []*Type
}

func (t *Type) Spelling() string { return t.SpellingV }
func (t *Type) Canonical() parser.Type {
	if t.CanonicalV == nil {
		return t
	}
	return t.CanonicalV
}
func (t *Type) Kind() parser.TypeKind { return t.KindV }
func (t *Type) SizeOf() int64        { return t.SizeV }
func (t *Type) AlignOf() int64       { return t.AlignV }
func (t *Type) ElementType() parser.Type {
	if t.ElementV == nil {
		return nil
	}
	return t.ElementV
}
func (t *Type) ArrayLen() int64 { return t.ArrayLenV }
func (t *Type) PointeeType() parser.Type {
	if t.PointeeV == nil {
		return nil
	}
	return t.PointeeV
}
func (t *Type) IsConstQualified() bool { return t.ConstV }
func (t *Type) Declaration() parser.Cursor {
	if t.DeclarationV == nil {
		return nil
	}
	return t.DeclarationV
}
func (t *Type) CallingConvention() parser.CallingConvention { return t.CallConvV }
func (t *Type) ResultType() parser.Type {
	if t.ResultV == nil {
		return nil
	}
	return t.ResultV
}
func (t *Type) ParameterTypes() []parser.Type {
	out := make([]parser.Type, len(t.ParametersV))
	for i, p := range t.ParametersV {
		out[i] = p
	}
	return out
}

// Cursor is a fake parser.Cursor: a plain tree built by hand in tests.
type Cursor struct {
	KindV       parser.Kind
	SpellingV   string
	LocationV   parser.Location
	SystemV     bool
	TypeV       *Type
	Children    []*Cursor
	EnumValueV  int64
	MacroToksV  []string
	IDV         string
}

func (c *Cursor) Kind() parser.Kind          { return c.KindV }
func (c *Cursor) Spelling() string           { return c.SpellingV }
func (c *Cursor) Location() parser.Location  { return c.LocationV }
func (c *Cursor) IsInSystemHeader() bool     { return c.SystemV }
func (c *Cursor) Type() parser.Type {
	if c.TypeV == nil {
		return nil
	}
	return c.TypeV
}
func (c *Cursor) VisitChildren(fn func(parser.Cursor) bool) {
	for _, ch := range c.Children {
		if !fn(ch) {
			return
		}
	}
}
func (c *Cursor) EnumConstantValue() int64 { return c.EnumValueV }
func (c *Cursor) MacroTokens() []string    { return c.MacroToksV }
func (c *Cursor) ID() string {
	if c.IDV != "" {
		return c.IDV
	}
	return c.SpellingV
}

// Builtin returns a fake builtin Type with the given spelling/size/align,
// the shape Mapper-C expects for primitive C types (§4.2).
func Builtin(spelling string, size, align int64, kind parser.TypeKind) *Type {
	return &Type{SpellingV: spelling, SizeV: size, AlignV: align, KindV: kind}
}
