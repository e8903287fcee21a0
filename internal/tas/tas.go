// Package tas implements the Target Abstract Surface (spec §3.2): CAS
// mirrored into target-language-ready names and layout, produced by
// Mapper-Target and consumed by the Emitter.
package tas

import "github.com/ccsurface/c2x/internal/diag"

// Type is the TType node of §3.2: like cas.Type but Name is already the
// final target-language type name.
type Type struct {
	Name        string `json:"name"`
	SizeBytes   int64  `json:"size_bytes"`
	AlignBytes  int64  `json:"align_bytes"`
	ArraySize   *int64 `json:"array_size,omitempty"`
	ElementSize *int64 `json:"element_size,omitempty"`
	IsBuiltin   bool   `json:"is_builtin"`
}

// Parameter is a target function parameter: name-sanitised, uniqued (§4.3
// points 4-5).
type Parameter struct {
	Name string `json:"name"`
	Type string `json:"type_name"`
}

// Function is a target function declaration.
type Function struct {
	Name              string        `json:"name"`
	ReturnType        string        `json:"return_type_name"`
	CallingConvention string        `json:"calling_convention"`
	Parameters        []Parameter   `json:"parameters"`
	Location          diag.Location `json:"location"`
}

// FunctionPointer is a target function-pointer type, either a canonical
// built-in shape (§4.3 point 6) or a per-field synthesized one.
type FunctionPointer struct {
	Name       string        `json:"name"`
	ReturnType string        `json:"return_type_name"`
	Parameters []Parameter   `json:"parameters"`
	Location   diag.Location `json:"location"`
}

// StructField is a TStructField (§3.2): like cas.RecordField but with the
// IsWrappedArray flag set when the element type isn't a target primitive
// (§4.3 point 3).
type StructField struct {
	Name           string `json:"name"`
	Type           string `json:"type_name"`
	OffsetBits     int64  `json:"offset_bits"`
	PaddingBits    int64  `json:"padding_bits"`
	IsWrappedArray bool   `json:"is_wrapped_array"`
	// WrappedElementType and WrappedCount are only meaningful when
	// IsWrappedArray is true: the Emitter needs them to synthesize the
	// typed-view accessor (§4.4).
	WrappedElementType string `json:"wrapped_element_type,omitempty"`
	WrappedCount       int64  `json:"wrapped_count,omitempty"`
}

// Record is a target struct/union declaration.
type Record struct {
	Name                   string             `json:"name"`
	IsUnion                bool               `json:"is_union"`
	Fields                 []StructField      `json:"fields"`
	NestedRecords          []*Record          `json:"nested_records,omitempty"`
	NestedFunctionPointers []*FunctionPointer `json:"nested_function_pointers,omitempty"`
	SizeBytes              int64              `json:"size_bytes"`
	AlignBytes             int64              `json:"align_bytes"`
	Location               diag.Location      `json:"location"`
}

// OpaqueType is a target opaque handle: emitted as an empty zero-field
// record (§4.4 "Emit opaque types as empty zero-field records").
type OpaqueType struct {
	Name     string        `json:"name"`
	Location diag.Location `json:"location"`
}

// EnumValue is a target enum constant.
type EnumValue struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// Enum is a target enum declaration; IntegerType is always normalised to a
// fixed-width i32/u32 (§4.3 point 8).
type Enum struct {
	Name        string        `json:"name"`
	IntegerType string        `json:"integer_type_name"`
	Values      []EnumValue   `json:"values"`
	Location    diag.Location `json:"location"`
}

// Variable is a target global-variable declaration.
type Variable struct {
	Name     string        `json:"name"`
	Type     string        `json:"type_name"`
	Location diag.Location `json:"location"`
}

// MacroObject is a target literal constant lowered from a CMacroObject.
type MacroObject struct {
	Name     string        `json:"name"`
	Tokens   []string      `json:"tokens"`
	Location diag.Location `json:"location"`
}

// NodeKind tags a root reference, mirroring cas.NodeKind.
type NodeKind string

const (
	NodeFunction        NodeKind = "Function"
	NodeFunctionPointer NodeKind = "FunctionPointer"
	NodeRecord          NodeKind = "Record"
	NodeOpaqueType      NodeKind = "OpaqueType"
	NodeEnum            NodeKind = "Enum"
	NodeVariable        NodeKind = "Variable"
	NodeMacroObject     NodeKind = "MacroObject"
)

// Ref identifies one root declaration by kind and name.
type Ref struct {
	Kind NodeKind `json:"kind"`
	Name string   `json:"name"`
}
