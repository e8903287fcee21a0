// Package parser defines the cursor/type contract the core pipeline
// consumes (spec §6): an opaque parser surface that the Explorer and
// Mapper-C stages walk. libclang is the canonical implementation named by
// the spec; this package only fixes the interface, so any conforming
// oracle is acceptable — internal/ccoracle wires a concrete one backed by
// modernc.org/cc/v4.
package parser

// Kind identifies the syntactic role of a Cursor, mirroring the subset of
// libclang cursor kinds the core actually inspects.
type Kind int

const (
	KindInvalid Kind = iota
	KindTranslationUnit
	KindFunctionDecl
	KindParmDecl
	KindStructDecl
	KindUnionDecl
	KindFieldDecl
	KindEnumDecl
	KindEnumConstantDecl
	KindTypedefDecl
	KindVarDecl
	KindMacroDefinition
)

func (k Kind) String() string {
	switch k {
	case KindTranslationUnit:
		return "TranslationUnit"
	case KindFunctionDecl:
		return "FunctionDecl"
	case KindParmDecl:
		return "ParmDecl"
	case KindStructDecl:
		return "StructDecl"
	case KindUnionDecl:
		return "UnionDecl"
	case KindFieldDecl:
		return "FieldDecl"
	case KindEnumDecl:
		return "EnumDecl"
	case KindEnumConstantDecl:
		return "EnumConstantDecl"
	case KindTypedefDecl:
		return "TypedefDecl"
	case KindVarDecl:
		return "VarDecl"
	case KindMacroDefinition:
		return "MacroDefinition"
	default:
		return "Invalid"
	}
}

// CallingConvention mirrors the subset of ABI calling conventions the core
// cares about. Only CCallingConvention is supported end to end (spec §1
// non-goals: "does not perform semantic name-mangling for C++ symbols").
type CallingConvention int

const (
	CallingConventionUnknown CallingConvention = iota
	CallingConventionC
)

// TypeKind classifies a Type the way §3.1's CType.kind does.
type TypeKind int

const (
	TypeKindInvalid TypeKind = iota
	TypeKindVoid
	TypeKindBool
	TypeKindBuiltinInt
	TypeKindBuiltinFloat
	TypeKindPointer
	TypeKindRecord
	TypeKindEnum
	TypeKindTypedef
	TypeKindFunctionPointer
	TypeKindConstArray
	TypeKindVaList
)

// Location is the (file, line, column) triple every diagnostic and CAS node
// location is derived from.
type Location struct {
	File   string
	Line   int
	Column int
}

// Type is the parser's view of a C type: its spelling, canonical form, and
// ABI-computed layout (§4.2 "Sizes, alignments, and field offsets come from
// the parser's layout oracle").
type Type interface {
	// Spelling is the type's as-written textual spelling (e.g. "unsigned
	// long", "struct Point *").
	Spelling() string
	// Canonical strips typedefs/elaborated-type sugar down to the
	// underlying type, per §4.2 "Elaborated types unwrap to their named
	// type".
	Canonical() Type
	Kind() TypeKind
	SizeOf() int64
	AlignOf() int64
	// ElementType is the array element type; valid only when Kind is
	// TypeKindConstArray.
	ElementType() Type
	// ArrayLen is the declared array length; valid only when Kind is
	// TypeKindConstArray.
	ArrayLen() int64
	// PointeeType is the pointee type; valid only when Kind is
	// TypeKindPointer or TypeKindFunctionPointer.
	PointeeType() Type
	IsConstQualified() bool
	// Declaration returns the Cursor that declares this type (e.g. the
	// CursorStructDecl for a struct type), or nil for builtins.
	Declaration() Cursor
	CallingConvention() CallingConvention
	// ResultType is the return type of a function or function-pointer
	// type; valid only when Kind is TypeKindFunctionPointer (needed to
	// match function-pointer shapes against §4.3 point 6's built-in
	// table, e.g. "void(void)").
	ResultType() Type
	// ParameterTypes is the parameter list of a function or
	// function-pointer type; valid only when Kind is
	// TypeKindFunctionPointer.
	ParameterTypes() []Type
}

// Cursor is one node of the parsed translation unit.
type Cursor interface {
	Kind() Kind
	// Spelling is the cursor's name — empty for anonymous records and
	// parameters.
	Spelling() string
	Location() Location
	IsInSystemHeader() bool
	Type() Type
	// VisitChildren calls fn once per direct child, in declaration order,
	// stopping early if fn returns false.
	VisitChildren(fn func(Cursor) bool)
	// EnumConstantValue is only valid when Kind is KindEnumConstantDecl.
	EnumConstantValue() int64
	// MacroTokens is only valid when Kind is KindMacroDefinition: the raw
	// token spellings of an object-like macro's replacement list. A nil
	// slice (as opposed to empty) signals a function-like macro.
	MacroTokens() []string
	// ID is a structural-identity key stable across repeated queries of
	// the same declaration, standing in for "canonical spelling" per §9's
	// design note ("prefer structural identity... parser handles are not
	// required to be stable across queries").
	ID() string
}
