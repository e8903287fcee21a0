package mapc

import (
	"testing"

	"github.com/ccsurface/c2x/internal/diag"
	"github.com/ccsurface/c2x/internal/explorer"
	"github.com/ccsurface/c2x/internal/parser"
	"github.com/ccsurface/c2x/internal/parser/parsertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cint() *parsertest.Type {
	return &parsertest.Type{SpellingV: "int", KindV: parser.TypeKindBuiltinInt, SizeV: 4, AlignV: 4}
}

func TestMap_MinimalFunction(t *testing.T) {
	a := &parsertest.Cursor{KindV: parser.KindParmDecl, SpellingV: "a", TypeV: cint(), IDV: "a"}
	b := &parsertest.Cursor{KindV: parser.KindParmDecl, SpellingV: "b", TypeV: cint(), IDV: "b"}
	add := &parsertest.Cursor{KindV: parser.KindFunctionDecl, SpellingV: "add", TypeV: cint(), Children: []*parsertest.Cursor{a, b}, IDV: "add"}
	root := &parsertest.Cursor{KindV: parser.KindTranslationUnit, Children: []*parsertest.Cursor{add}, IDV: "tu"}

	collector := diag.NewCollector(nil)
	res := explorer.Explore(root, collector)
	surface := Map(res, collector)

	require.False(t, collector.HasErrors())
	f, ok := surface.Function("add")
	require.True(t, ok)
	assert.Equal(t, "i32", f.ReturnType)
	assert.Equal(t, "C", f.CallingConvention)
	require.Len(t, f.Parameters, 2)
	assert.Equal(t, "a", f.Parameters[0].Name)
	assert.Equal(t, "i32", f.Parameters[0].Type)
	assert.Equal(t, "b", f.Parameters[1].Name)
}

func TestMap_AnonymousUnionInStruct(t *testing.T) {
	tagField := &parsertest.Cursor{KindV: parser.KindFieldDecl, SpellingV: "tag", TypeV: cint(), IDV: "S.tag"}
	iField := &parsertest.Cursor{KindV: parser.KindFieldDecl, SpellingV: "i", TypeV: cint(), IDV: "u.i"}
	fField := &parsertest.Cursor{KindV: parser.KindFieldDecl, SpellingV: "f", TypeV: &parsertest.Type{SpellingV: "float", KindV: parser.TypeKindBuiltinFloat, SizeV: 4, AlignV: 4}, IDV: "u.f"}
	anonUnion := &parsertest.Cursor{KindV: parser.KindUnionDecl, SpellingV: "", Children: []*parsertest.Cursor{iField, fField}, IDV: "anon_union"}
	unionType := &parsertest.Type{KindV: parser.TypeKindRecord, DeclarationV: anonUnion, SpellingV: "union (anonymous)", SizeV: 4, AlignV: 4}
	uField := &parsertest.Cursor{KindV: parser.KindFieldDecl, SpellingV: "u", TypeV: unionType, IDV: "S.u"}

	structS := &parsertest.Cursor{KindV: parser.KindStructDecl, SpellingV: "struct S", Children: []*parsertest.Cursor{tagField, uField}, IDV: "S"}
	structType := &parsertest.Type{KindV: parser.TypeKindRecord, DeclarationV: structS, SpellingV: "struct S", SizeV: 8, AlignV: 4}
	fn := &parsertest.Cursor{
		KindV: parser.KindFunctionDecl, SpellingV: "use_s",
		TypeV: &parsertest.Type{SpellingV: "void", KindV: parser.TypeKindVoid},
		Children: []*parsertest.Cursor{
			{KindV: parser.KindParmDecl, SpellingV: "s", TypeV: structType, IDV: "p_s"},
		},
		IDV: "use_s",
	}
	root := &parsertest.Cursor{KindV: parser.KindTranslationUnit, Children: []*parsertest.Cursor{fn}, IDV: "tu"}

	collector := diag.NewCollector(nil)
	res := explorer.Explore(root, collector)
	surface := Map(res, collector)

	require.False(t, collector.HasErrors())
	s, ok := surface.Record("S")
	require.True(t, ok)
	require.Len(t, s.Fields, 2)
	assert.Equal(t, "tag", s.Fields[0].Name)
	assert.Equal(t, int64(0), s.Fields[0].OffsetBits)
	assert.Equal(t, "u", s.Fields[1].Name)
	assert.Equal(t, "Anonymous_Union_u", s.Fields[1].Type)
	assert.Equal(t, int64(32), s.Fields[1].OffsetBits)

	require.Len(t, s.NestedRecords, 1)
	nested := s.NestedRecords[0]
	assert.Equal(t, "Anonymous_Union_u", nested.Name)
	assert.True(t, nested.IsUnion)
	require.Len(t, nested.Fields, 2)
	assert.Equal(t, int64(0), nested.Fields[0].OffsetBits)
	assert.Equal(t, int64(0), nested.Fields[1].OffsetBits)

	sType, ok := surface.Type("S")
	require.True(t, ok)
	assert.Equal(t, int64(8), sType.SizeBytes)
	assert.Equal(t, int64(4), sType.AlignBytes)
}

func TestMap_VariadicFunctionDropped(t *testing.T) {
	fmtParam := &parsertest.Cursor{
		KindV: parser.KindParmDecl, SpellingV: "fmt",
		TypeV: &parsertest.Type{SpellingV: "const char *", KindV: parser.TypeKindPointer, PointeeV: &parsertest.Type{SpellingV: "const char", KindV: parser.TypeKindBuiltinInt, SizeV: 1, AlignV: 1}},
		IDV:   "fmt",
	}
	vaParam := &parsertest.Cursor{KindV: parser.KindParmDecl, SpellingV: "args", TypeV: &parsertest.Type{SpellingV: "va_list", KindV: parser.TypeKindVaList}, IDV: "va"}
	printfFn := &parsertest.Cursor{
		KindV: parser.KindFunctionDecl, SpellingV: "printf",
		TypeV: cint(), Children: []*parsertest.Cursor{fmtParam, vaParam}, IDV: "printf",
	}
	root := &parsertest.Cursor{KindV: parser.KindTranslationUnit, Children: []*parsertest.Cursor{printfFn}, IDV: "tu"}

	collector := diag.NewCollector(nil)
	res := explorer.Explore(root, collector)
	surface := Map(res, collector)

	_, ok := surface.Function("printf")
	assert.False(t, ok)

	var found int
	for _, d := range collector.Items() {
		if d.Kind == diag.VariadicFunctionDropped {
			found++
			assert.Equal(t, "printf", d.Name)
		}
	}
	assert.Equal(t, 1, found)
}

func TestMap_ObjectLikeMacroLiteral(t *testing.T) {
	maxN := &parsertest.Cursor{KindV: parser.KindMacroDefinition, SpellingV: "MAX_N", MacroToksV: []string{"42"}, IDV: "MAX_N"}
	root := &parsertest.Cursor{KindV: parser.KindTranslationUnit, Children: []*parsertest.Cursor{maxN}, IDV: "tu"}

	collector := diag.NewCollector(nil)
	res := explorer.Explore(root, collector)
	surface := Map(res, collector)

	mo, ok := surface.Macro("MAX_N")
	require.True(t, ok)
	assert.Equal(t, []string{"42"}, mo.Tokens)
}

func TestMap_NonLiteralMacroDropped(t *testing.T) {
	bar := &parsertest.Cursor{KindV: parser.KindMacroDefinition, SpellingV: "BAR", MacroToksV: []string{"a", "+", "b"}, IDV: "BAR"}
	root := &parsertest.Cursor{KindV: parser.KindTranslationUnit, Children: []*parsertest.Cursor{bar}, IDV: "tu"}

	collector := diag.NewCollector(nil)
	res := explorer.Explore(root, collector)
	surface := Map(res, collector)

	_, ok := surface.Macro("BAR")
	assert.False(t, ok)

	require.Len(t, collector.Items(), 1)
	assert.Equal(t, diag.MacroObjectNotTranspiled, collector.Items()[0].Kind)
}

func TestMap_CharPointerCanonicalisesToCString(t *testing.T) {
	charT := &parsertest.Type{SpellingV: "const char", KindV: parser.TypeKindBuiltinInt, SizeV: 1, AlignV: 1}
	charPtrT := &parsertest.Type{SpellingV: "const char *", KindV: parser.TypeKindPointer, PointeeV: charT, SizeV: 8, AlignV: 8}
	p := &parsertest.Cursor{KindV: parser.KindParmDecl, SpellingV: "s", TypeV: charPtrT, IDV: "s"}
	fn := &parsertest.Cursor{KindV: parser.KindFunctionDecl, SpellingV: "puts2", TypeV: cint(), Children: []*parsertest.Cursor{p}, IDV: "puts2"}
	root := &parsertest.Cursor{KindV: parser.KindTranslationUnit, Children: []*parsertest.Cursor{fn}, IDV: "tu"}

	collector := diag.NewCollector(nil)
	res := explorer.Explore(root, collector)
	surface := Map(res, collector)

	f, ok := surface.Function("puts2")
	require.True(t, ok)
	assert.Equal(t, "CString", f.Parameters[0].Type)
}
