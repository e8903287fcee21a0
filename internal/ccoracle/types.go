package ccoracle

import "github.com/ccsurface/c2x/internal/parser"

// builtinWidths covers the C builtin spellings this reference oracle
// resolves sizes for without going through cc/v4's semantic Type layer
// (see package doc for why). Widths match the LP64 ABI every pack
// C-binding generator targets (janpfeifer-go-highway, fardream-gen-mkl-wrapper).
var builtinWidths = map[string]struct {
	size, align int64
	kind        parser.TypeKind
}{
	"void":              {0, 1, parser.TypeKindVoid},
	"_Bool":             {1, 1, parser.TypeKindBool},
	"char":              {1, 1, parser.TypeKindBuiltinInt},
	"signed char":       {1, 1, parser.TypeKindBuiltinInt},
	"unsigned char":     {1, 1, parser.TypeKindBuiltinInt},
	"short":             {2, 2, parser.TypeKindBuiltinInt},
	"unsigned short":    {2, 2, parser.TypeKindBuiltinInt},
	"int":               {4, 4, parser.TypeKindBuiltinInt},
	"unsigned int":      {4, 4, parser.TypeKindBuiltinInt},
	"unsigned":          {4, 4, parser.TypeKindBuiltinInt},
	"long":              {8, 8, parser.TypeKindBuiltinInt},
	"unsigned long":     {8, 8, parser.TypeKindBuiltinInt},
	"long long":         {8, 8, parser.TypeKindBuiltinInt},
	"unsigned long long": {8, 8, parser.TypeKindBuiltinInt},
	"float":             {4, 4, parser.TypeKindBuiltinFloat},
	"double":            {8, 8, parser.TypeKindBuiltinFloat},
}

// builtinType is a leaf parser.Type for a builtin spelling.
type builtinType struct {
	spelling string
	size     int64
	align    int64
	kind     parser.TypeKind
}

func builtinTypeFor(spelling string) parser.Type {
	if w, ok := builtinWidths[spelling]; ok {
		return &builtinType{spelling: spelling, size: w.size, align: w.align, kind: w.kind}
	}
	// Unrecognized spelling (a struct/typedef name this oracle doesn't
	// resolve structurally): fall back to a 4-byte int-kinded builtin under
	// that spelling rather than panicking. Mapper-C lowers it like any other
	// 4-byte integer builtin and raises no diagnostic for it.
	return &builtinType{spelling: spelling, size: 4, align: 4, kind: parser.TypeKindBuiltinInt}
}

func (t *builtinType) Spelling() string                 { return t.spelling }
func (t *builtinType) Canonical() parser.Type            { return t }
func (t *builtinType) Kind() parser.TypeKind              { return t.kind }
func (t *builtinType) SizeOf() int64                      { return t.size }
func (t *builtinType) AlignOf() int64                     { return t.align }
func (t *builtinType) ElementType() parser.Type           { return nil }
func (t *builtinType) ArrayLen() int64                    { return 0 }
func (t *builtinType) PointeeType() parser.Type           { return nil }
func (t *builtinType) IsConstQualified() bool             { return false }
func (t *builtinType) Declaration() parser.Cursor         { return nil }
func (t *builtinType) CallingConvention() parser.CallingConvention {
	return parser.CallingConventionUnknown
}
func (t *builtinType) ResultType() parser.Type      { return nil }
func (t *builtinType) ParameterTypes() []parser.Type { return nil }

// pointerType wraps a pointee as a TypeKindPointer, sized for the LP64 ABI.
type pointerType struct {
	pointee parser.Type
}

func (t *pointerType) Spelling() string       { return t.pointee.Spelling() + " *" }
func (t *pointerType) Canonical() parser.Type { return t }
func (t *pointerType) Kind() parser.TypeKind  { return parser.TypeKindPointer }
func (t *pointerType) SizeOf() int64          { return 8 }
func (t *pointerType) AlignOf() int64         { return 8 }
func (t *pointerType) ElementType() parser.Type { return nil }
func (t *pointerType) ArrayLen() int64          { return 0 }
func (t *pointerType) PointeeType() parser.Type { return t.pointee }
func (t *pointerType) IsConstQualified() bool   { return false }
func (t *pointerType) Declaration() parser.Cursor { return nil }
func (t *pointerType) CallingConvention() parser.CallingConvention {
	return parser.CallingConventionUnknown
}
func (t *pointerType) ResultType() parser.Type       { return nil }
func (t *pointerType) ParameterTypes() []parser.Type { return nil }
