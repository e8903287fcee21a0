package golang

import (
	"strings"
	"testing"

	"github.com/ccsurface/c2x/internal/emit"
	"github.com/ccsurface/c2x/internal/tas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmit_RecordWithWrappedArrayAndCharBuffer(t *testing.T) {
	b := tas.NewBuilder()
	b.AddRecord(&tas.Record{
		Name: "Image",
		Fields: []tas.StructField{
			{Name: "pixels", Type: "u8[64]", IsWrappedArray: true, WrappedElementType: "Color", WrappedCount: 16},
			{Name: "name", Type: "u8[8]"},
		},
		SizeBytes: 72,
	})
	b.AddRoot(tas.Ref{Kind: tas.NodeRecord, Name: "Image"})
	surface := b.Freeze()

	out, err := New("capi").Emit(surface, emit.Options{ClassName: "API", LibraryName: "libimage.so"})
	require.NoError(t, err)

	src := string(out)
	assert.Contains(t, src, "type Image struct")
	assert.Contains(t, src, "func (v *Image) Pixels() []Color")
	assert.Contains(t, src, "func (v *Image) NameString() string")
}

func TestEmit_OpaqueTypeEmptyStruct(t *testing.T) {
	b := tas.NewBuilder()
	b.AddOpaqueType(&tas.OpaqueType{Name: "Context"})
	b.AddRoot(tas.Ref{Kind: tas.NodeOpaqueType, Name: "Context"})
	surface := b.Freeze()

	out, err := New("capi").Emit(surface, emit.Options{ClassName: "API"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "type Context struct{}")
}

func TestEmit_EnumWithExplicitUnderlyingType(t *testing.T) {
	b := tas.NewBuilder()
	b.AddEnum(&tas.Enum{
		Name:        "Color",
		IntegerType: "u32",
		Values:      []tas.EnumValue{{Name: "Red", Value: 0}, {Name: "Green", Value: 1}},
	})
	b.AddRoot(tas.Ref{Kind: tas.NodeEnum, Name: "Color"})
	surface := b.Freeze()

	out, err := New("capi").Emit(surface, emit.Options{ClassName: "API"})
	require.NoError(t, err)

	src := string(out)
	assert.Contains(t, src, "type Color uint32")
	assert.Contains(t, src, "ColorRed   Color = 0")
	assert.Contains(t, src, "ColorGreen Color = 1")
}

func TestEmit_FunctionVtableAndLifecycle(t *testing.T) {
	b := tas.NewBuilder()
	b.AddFunction(&tas.Function{
		Name:       "do_thing",
		ReturnType: "i32",
		Parameters: []tas.Parameter{{Name: "x", Type: "i32"}},
	})
	b.AddRoot(tas.Ref{Kind: tas.NodeFunction, Name: "do_thing"})
	surface := b.Freeze()

	out, err := New("capi").Emit(surface, emit.Options{ClassName: "API", LibraryName: "libthing.so"})
	require.NoError(t, err)

	src := string(out)
	assert.Contains(t, src, "DoThing func(x int32) int32")
	assert.Contains(t, src, "func (api *API) load_api(path string) error")
	assert.Contains(t, src, "func (api *API) unload_api() error")
	assert.True(t, strings.Contains(src, `purego.Dlsym(handle, "do_thing")`))
}

func TestEmit_InteriorAlignmentGapPadsBeforeNotAfterField(t *testing.T) {
	b := tas.NewBuilder()
	b.AddRecord(&tas.Record{
		Name: "Mixed",
		Fields: []tas.StructField{
			{Name: "c", Type: "u8", OffsetBits: 0, PaddingBits: 0},
			{Name: "x", Type: "i32", OffsetBits: 32, PaddingBits: 24},
		},
		SizeBytes: 8,
	})
	b.AddRoot(tas.Ref{Kind: tas.NodeRecord, Name: "Mixed"})
	surface := b.Freeze()

	out, err := New("capi").Emit(surface, emit.Options{ClassName: "API"})
	require.NoError(t, err)

	src := string(out)
	require.Contains(t, src, "type Mixed struct")

	// The 3 padding bytes PaddingBits=24 describes belong before X (the
	// field they let Go's own compiler place at offset 4), not trailing
	// after it as an extra field — Go already inserts this gap on its
	// own, so a second, explicit one would double it and blow past the
	// C-reported SizeBytes.
	body := src[strings.Index(src, "type Mixed struct"):strings.Index(src, "func init")]
	require.Contains(t, body, "_ [3]byte")
	require.Contains(t, body, "X int32")
	assert.True(t, strings.Index(body, "_ [3]byte") < strings.Index(body, "X int32"),
		"padding must precede the field it aligns, not follow it:\n%s", body)
}

func TestEmit_UnionFieldAccessorsShareOffsetZero(t *testing.T) {
	b := tas.NewBuilder()
	b.AddRecord(&tas.Record{
		Name:      "Value",
		IsUnion:   true,
		SizeBytes: 4,
		Fields: []tas.StructField{
			{Name: "asInt", Type: "i32"},
			{Name: "asFloat", Type: "f32"},
		},
	})
	b.AddRoot(tas.Ref{Kind: tas.NodeRecord, Name: "Value"})
	surface := b.Freeze()

	out, err := New("capi").Emit(surface, emit.Options{ClassName: "API"})
	require.NoError(t, err)

	src := string(out)
	assert.Contains(t, src, "data [4]byte")
	assert.Contains(t, src, "func (v *Value) AsInt() *int32")
	assert.Contains(t, src, "func (v *Value) AsFloat() *float32")
}
