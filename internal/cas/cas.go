// Package cas implements the C Abstract Surface (spec §3.1): a closed,
// platform-neutral tree of named nodes produced by Mapper-C and consumed by
// Mapper-Target. Every cross-reference between nodes is by name — there are
// no pointers across the JSON boundary, so the surface round-trips exactly
// (spec §8 "Round-trip").
package cas

import "github.com/ccsurface/c2x/internal/diag"

// TypeKind classifies a CType node (§3.1).
type TypeKind string

const (
	TypeBuiltin         TypeKind = "Builtin"
	TypePointer         TypeKind = "Pointer"
	TypeRecord          TypeKind = "Record"
	TypeEnum            TypeKind = "Enum"
	TypeTypedef         TypeKind = "Typedef"
	TypeFunctionPointer TypeKind = "FunctionPointer"
	TypeConstArray      TypeKind = "ConstArray"
)

// Type is the CType node of §3.1.
type Type struct {
	Name         string   `json:"name"`
	OriginalName string   `json:"original_name"`
	SizeBytes    int64    `json:"size_bytes"`
	AlignBytes   int64    `json:"align_bytes"`
	ArraySize    *int64   `json:"array_size,omitempty"`
	ElementSize  *int64   `json:"element_size,omitempty"`
	Kind         TypeKind `json:"kind"`
	IsSystem     bool     `json:"is_system"`
}

// FunctionParameter is a CFunctionParameter (§3.1).
type FunctionParameter struct {
	Name    string `json:"name"`
	Type    string `json:"type_name"`
	IsConst bool   `json:"is_const"`
}

// Function is a CFunction (§3.1).
type Function struct {
	Name               string              `json:"name"`
	ReturnType         string              `json:"return_type_name"`
	CallingConvention  string              `json:"calling_convention"`
	Parameters         []FunctionParameter `json:"parameters"`
	Location           diag.Location       `json:"location"`
}

// FunctionPointerParameter is a CFunctionPointerParameter (§3.1).
type FunctionPointerParameter struct {
	Name string `json:"name"`
	Type string `json:"type_name"`
}

// FunctionPointer is a CFunctionPointer (§3.1).
type FunctionPointer struct {
	Name        string                     `json:"name"`
	IsSynthetic bool                       `json:"is_synthetic"`
	ReturnType  string                     `json:"return_type_name"`
	Parameters  []FunctionPointerParameter `json:"parameters"`
	Location    diag.Location              `json:"location"`
}

// RecordField is a CRecordField (§3.1).
type RecordField struct {
	Name        string `json:"name"`
	Type        string `json:"type_name"`
	OffsetBits  int64  `json:"offset_bits"`
	PaddingBits int64  `json:"padding_bits"`
}

// Record is a CRecord (§3.1). A Record is either complete (len(Fields) > 0
// or len(NestedRecords)+len(NestedFunctionPointers) > 0) or it surfaces
// elsewhere in the surface as an OpaqueType — never both (§3.1 invariant).
type Record struct {
	Name                   string             `json:"name"`
	IsUnion                bool               `json:"is_union"`
	Fields                 []RecordField      `json:"fields"`
	NestedRecords          []*Record          `json:"nested_records,omitempty"`
	NestedFunctionPointers []*FunctionPointer `json:"nested_function_pointers,omitempty"`
	TypeRef                string             `json:"type_ref"`
	Location               diag.Location      `json:"location"`
}

// OpaqueType is a COpaqueType (§3.1): a forward-declared record with no
// visible definition in the explored header set.
type OpaqueType struct {
	Name     string        `json:"name"`
	Location diag.Location `json:"location"`
}

// Typedef is a CTypedef (§3.1).
type Typedef struct {
	Name           string        `json:"name"`
	UnderlyingType string        `json:"underlying_type_name"`
	Location       diag.Location `json:"location"`
}

// EnumValue is a CEnumValue (§3.1).
type EnumValue struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// Enum is a CEnum (§3.1).
type Enum struct {
	Name        string        `json:"name"`
	IntegerType string        `json:"integer_type_name"`
	Values      []EnumValue   `json:"values"`
	Location    diag.Location `json:"location"`
}

// Variable is a CVariable (§3.1).
type Variable struct {
	Name     string        `json:"name"`
	Type     string        `json:"type_name"`
	Location diag.Location `json:"location"`
}

// MacroObject is a CMacroObject (§3.1): an object-like macro whose body
// lowered to a literal token stream (§4.2 "Macro lowering").
type MacroObject struct {
	Name     string        `json:"name"`
	Tokens   []string      `json:"tokens"`
	Location diag.Location `json:"location"`
}

// NodeKind tags a root declaration reference (used for ordering, §3.1/§4.3
// "Determinism").
type NodeKind string

const (
	NodeFunction        NodeKind = "Function"
	NodeFunctionPointer NodeKind = "FunctionPointer"
	NodeRecord          NodeKind = "Record"
	NodeOpaqueType      NodeKind = "OpaqueType"
	NodeTypedef         NodeKind = "Typedef"
	NodeEnum            NodeKind = "Enum"
	NodeVariable        NodeKind = "Variable"
	NodeMacroObject     NodeKind = "MacroObject"
)

// Ref identifies one top-level root declaration by kind and name.
type Ref struct {
	Kind NodeKind `json:"kind"`
	Name string   `json:"name"`
}
