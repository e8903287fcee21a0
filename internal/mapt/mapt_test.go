package mapt

import (
	"testing"

	"github.com/ccsurface/c2x/internal/cas"
	"github.com/ccsurface/c2x/internal/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func i32Type() *cas.Type { return &cas.Type{Name: "i32", SizeBytes: 4, AlignBytes: 4, Kind: cas.TypeBuiltin} }

func TestMap_AliasShadowingBuiltinSuppressesNode(t *testing.T) {
	b := cas.NewBuilder()
	b.AddType(i32Type())
	b.AddTypedef(&cas.Typedef{Name: "MyInt", UnderlyingType: "i32"})
	b.AddRoot(cas.Ref{Kind: cas.NodeTypedef, Name: "MyInt"})
	surface := b.Freeze()

	collector := diag.NewCollector(nil)
	out := Map(surface, Config{Aliases: []Alias{{From: "MyInt", To: "i32"}}}, collector)

	_, ok := out.Type("MyInt")
	assert.False(t, ok)

	var found bool
	for _, d := range collector.Items() {
		if d.Kind == diag.AliasShadowsBuiltin {
			found = true
		}
	}
	assert.True(t, found)
}

func TestMap_FixedBufferWrapping(t *testing.T) {
	b := cas.NewBuilder()
	b.AddType(i32Type())
	b.AddType(&cas.Type{Name: "Color", SizeBytes: 4, AlignBytes: 4, Kind: cas.TypeRecord})
	n := int64(16)
	elemSize := int64(4)
	b.AddType(&cas.Type{Name: "Color[16]", SizeBytes: 64, AlignBytes: 4, Kind: cas.TypeConstArray, ArraySize: &n, ElementSize: &elemSize})
	b.AddRecord(&cas.Record{
		Name: "Image",
		Fields: []cas.RecordField{
			{Name: "pixels", Type: "Color[16]", OffsetBits: 0},
		},
	})
	b.AddRoot(cas.Ref{Kind: cas.NodeRecord, Name: "Image"})
	surface := b.Freeze()

	collector := diag.NewCollector(nil)
	out := Map(surface, Config{}, collector)

	img, ok := out.Record("Image")
	require.True(t, ok)
	require.Len(t, img.Fields, 1)
	assert.True(t, img.Fields[0].IsWrappedArray)
	assert.Equal(t, "Color", img.Fields[0].WrappedElementType)
	assert.Equal(t, int64(16), img.Fields[0].WrappedCount)
	assert.Equal(t, "u8[64]", img.Fields[0].Type)
}

func TestMap_PrimitiveArrayFixedBuffer(t *testing.T) {
	b := cas.NewBuilder()
	b.AddType(i32Type())
	n := int64(4)
	elemSize := int64(4)
	b.AddType(&cas.Type{Name: "i32[4]", SizeBytes: 16, AlignBytes: 4, Kind: cas.TypeConstArray, ArraySize: &n, ElementSize: &elemSize})
	b.AddRecord(&cas.Record{Name: "Vec4", Fields: []cas.RecordField{{Name: "v", Type: "i32[4]"}}})
	b.AddRoot(cas.Ref{Kind: cas.NodeRecord, Name: "Vec4"})
	surface := b.Freeze()

	out := Map(surface, Config{}, diag.NewCollector(nil))
	rec, ok := out.Record("Vec4")
	require.True(t, ok)
	assert.False(t, rec.Fields[0].IsWrappedArray)
	assert.Equal(t, "i32[4]", rec.Fields[0].Type)
}

func TestMap_ParameterNameUniqueness(t *testing.T) {
	b := cas.NewBuilder()
	b.AddType(i32Type())
	b.AddFunction(&cas.Function{
		Name:       "f",
		ReturnType: "i32",
		Parameters: []cas.FunctionParameter{
			{Name: "", Type: "i32"},
			{Name: "a", Type: "i32"},
			{Name: "a", Type: "i32"},
			{Name: "", Type: "i32"},
		},
	})
	b.AddRoot(cas.Ref{Kind: cas.NodeFunction, Name: "f"})
	surface := b.Freeze()

	out := Map(surface, Config{}, diag.NewCollector(nil))
	f, ok := out.Function("f")
	require.True(t, ok)
	names := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"param", "a", "a2", "param2"}, names)
}

func TestMap_EnumNonNormalizedWidthDropped(t *testing.T) {
	b := cas.NewBuilder()
	b.AddEnum(&cas.Enum{Name: "Weird", IntegerType: "i16", Values: []cas.EnumValue{{Name: "A", Value: 1}}})
	b.AddRoot(cas.Ref{Kind: cas.NodeEnum, Name: "Weird"})
	surface := b.Freeze()

	collector := diag.NewCollector(nil)
	out := Map(surface, Config{}, collector)

	_, ok := out.Enum("Weird")
	assert.False(t, ok)
	require.Len(t, collector.Items(), 1)
	assert.Equal(t, diag.NotImplemented, collector.Items()[0].Kind)
}

func TestMap_IgnoredNameOmittedAtEveryLevel(t *testing.T) {
	b := cas.NewBuilder()
	b.AddType(i32Type())
	b.AddOpaqueType(&cas.OpaqueType{Name: "Secret"})
	b.AddRoot(cas.Ref{Kind: cas.NodeOpaqueType, Name: "Secret"})
	surface := b.Freeze()

	out := Map(surface, Config{IgnoredNames: map[string]bool{"Secret": true}}, diag.NewCollector(nil))
	_, ok := out.OpaqueType("Secret")
	assert.False(t, ok)
}

func TestMap_ReservedWordParameterSanitised(t *testing.T) {
	b := cas.NewBuilder()
	b.AddType(i32Type())
	b.AddFunction(&cas.Function{
		Name:       "f",
		ReturnType: "i32",
		Parameters: []cas.FunctionParameter{{Name: "struct", Type: "i32"}},
	})
	b.AddRoot(cas.Ref{Kind: cas.NodeFunction, Name: "f"})
	surface := b.Freeze()

	out := Map(surface, Config{ReservedWords: map[string]bool{"struct": true}}, diag.NewCollector(nil))
	f, ok := out.Function("f")
	require.True(t, ok)
	assert.Equal(t, "_struct", f.Parameters[0].Name)
}
