package cas

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSurface() *Surface {
	b := NewBuilder()
	b.AddType(&Type{Name: "i32", SizeBytes: 4, AlignBytes: 4, Kind: TypeBuiltin})
	b.AddFunction(&Function{
		Name:              "add",
		ReturnType:        "i32",
		CallingConvention: "C",
		Parameters: []FunctionParameter{
			{Name: "a", Type: "i32"},
			{Name: "b", Type: "i32"},
		},
	})
	b.AddRoot(Ref{Kind: NodeFunction, Name: "add"})

	b.AddType(&Type{Name: "Anonymous_Union_u", SizeBytes: 4, AlignBytes: 4, Kind: TypeRecord})
	b.AddType(&Type{Name: "S", SizeBytes: 8, AlignBytes: 4, Kind: TypeRecord})
	b.AddRecord(&Record{
		Name: "S",
		Fields: []RecordField{
			{Name: "tag", Type: "i32", OffsetBits: 0},
			{Name: "u", Type: "Anonymous_Union_u", OffsetBits: 32},
		},
		NestedRecords: []*Record{
			{
				Name:    "Anonymous_Union_u",
				IsUnion: true,
				Fields: []RecordField{
					{Name: "i", Type: "i32"},
					{Name: "f", Type: "i32"},
				},
			},
		},
	})
	b.AddRoot(Ref{Kind: NodeRecord, Name: "S"})
	return b.Freeze()
}

func TestBuilder_DeduplicatesByName(t *testing.T) {
	b := NewBuilder()
	assert.True(t, b.AddFunction(&Function{Name: "f"}))
	assert.False(t, b.AddFunction(&Function{Name: "f"}))
	assert.Len(t, b.Freeze().Functions(), 1)
}

func TestBuilder_OpaqueNeverCoexistsWithRecord(t *testing.T) {
	b := NewBuilder()
	require.True(t, b.AddOpaqueType(&OpaqueType{Name: "Handle"}))
	assert.False(t, b.AddRecord(&Record{Name: "Handle"}))

	b2 := NewBuilder()
	require.True(t, b2.AddRecord(&Record{Name: "Handle"}))
	assert.False(t, b2.AddOpaqueType(&OpaqueType{Name: "Handle"}))
}

func TestBuilder_PromoteOpaqueToRecord(t *testing.T) {
	b := NewBuilder()
	b.AddOpaqueType(&OpaqueType{Name: "Handle"})
	require.True(t, b.HasOpaqueType("Handle"))

	b.PromoteOpaqueToRecord(&Record{Name: "Handle", Fields: []RecordField{{Name: "x", Type: "i32"}}})

	s := b.Freeze()
	assert.False(t, b.HasOpaqueType("Handle"))
	_, stillOpaque := s.OpaqueType("Handle")
	assert.False(t, stillOpaque)
	_, isRecord := s.Record("Handle")
	assert.True(t, isRecord)
}

func TestSurface_Validate_OK(t *testing.T) {
	require.NoError(t, sampleSurface().Validate())
}

func TestSurface_Validate_UnresolvedType(t *testing.T) {
	b := NewBuilder()
	b.AddFunction(&Function{Name: "f", ReturnType: "does_not_exist"})
	assert.Error(t, b.Freeze().Validate())
}

// Validate only checks type-reference resolution; empty or duplicate
// parameter spellings are routine raw extractor output and are left for
// internal/mapt's sanitizeParameters to rename, not rejected here.
func TestSurface_Validate_DuplicateOrEmptyParameterNamesAllowed(t *testing.T) {
	b := NewBuilder()
	b.AddType(&Type{Name: "i32", SizeBytes: 4, AlignBytes: 4, Kind: TypeBuiltin})
	b.AddFunction(&Function{
		Name:       "f",
		ReturnType: "i32",
		Parameters: []FunctionParameter{{Name: "a", Type: "i32"}, {Name: "a", Type: "i32"}, {Name: "", Type: "i32"}},
	})
	assert.NoError(t, b.Freeze().Validate())
}

func TestSurface_JSONRoundTrip(t *testing.T) {
	want := sampleSurface()

	data, err := json.Marshal(want)
	require.NoError(t, err)

	got := &Surface{}
	require.NoError(t, json.Unmarshal(data, got))

	if diff := cmp.Diff(want.Functions(), got.Functions()); diff != "" {
		t.Errorf("functions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Records(), got.Records()); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Types(), got.Types()); diff != "" {
		t.Errorf("types mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, want.Roots, got.Roots)

	data2, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(data2))
}

func TestSurface_RecordFieldOffsetsWithinSize(t *testing.T) {
	s := sampleSurface()
	r, ok := s.Record("S")
	require.True(t, ok)
	ty, ok := s.Type("S")
	require.True(t, ok)

	for _, f := range r.Fields {
		ft, ok := s.Type(f.Type)
		require.True(t, ok)
		assert.LessOrEqual(t, f.OffsetBits+ft.SizeBytes*8, ty.SizeBytes*8)
	}
}
