package cas

// Surface is the closed CAS: a mapping from (kind, qualified-name) to node,
// plus the ordered root list (§3.1). Iteration order always follows
// insertion order, which Mapper-C derives from Explorer's discovery order
// (§4.3 "Determinism").
type Surface struct {
	Roots []Ref `json:"roots"`

	functions        map[string]*Function
	functionOrder    []string
	functionPointers map[string]*FunctionPointer
	fnPointerOrder   []string
	records          map[string]*Record
	recordOrder      []string
	opaqueTypes      map[string]*OpaqueType
	opaqueOrder      []string
	typedefs         map[string]*Typedef
	typedefOrder     []string
	enums            map[string]*Enum
	enumOrder        []string
	variables        map[string]*Variable
	variableOrder    []string
	macros           map[string]*MacroObject
	macroOrder       []string
	types            map[string]*Type
	typeOrder        []string
}

func newSurface() *Surface {
	return &Surface{
		functions:        make(map[string]*Function),
		functionPointers: make(map[string]*FunctionPointer),
		records:          make(map[string]*Record),
		opaqueTypes:      make(map[string]*OpaqueType),
		typedefs:         make(map[string]*Typedef),
		enums:            make(map[string]*Enum),
		variables:        make(map[string]*Variable),
		macros:           make(map[string]*MacroObject),
		types:            make(map[string]*Type),
	}
}

// Functions returns all CFunction nodes in insertion order.
func (s *Surface) Functions() []*Function {
	out := make([]*Function, 0, len(s.functionOrder))
	for _, n := range s.functionOrder {
		out = append(out, s.functions[n])
	}
	return out
}

// Function looks up a function by name.
func (s *Surface) Function(name string) (*Function, bool) {
	f, ok := s.functions[name]
	return f, ok
}

// FunctionPointers returns all CFunctionPointer nodes in insertion order.
func (s *Surface) FunctionPointers() []*FunctionPointer {
	out := make([]*FunctionPointer, 0, len(s.fnPointerOrder))
	for _, n := range s.fnPointerOrder {
		out = append(out, s.functionPointers[n])
	}
	return out
}

// FunctionPointer looks up a function-pointer type by name.
func (s *Surface) FunctionPointer(name string) (*FunctionPointer, bool) {
	f, ok := s.functionPointers[name]
	return f, ok
}

// Records returns all top-level CRecord nodes in insertion order.
func (s *Surface) Records() []*Record {
	out := make([]*Record, 0, len(s.recordOrder))
	for _, n := range s.recordOrder {
		out = append(out, s.records[n])
	}
	return out
}

// Record looks up a record by name.
func (s *Surface) Record(name string) (*Record, bool) {
	r, ok := s.records[name]
	return r, ok
}

// OpaqueTypes returns all COpaqueType nodes in insertion order.
func (s *Surface) OpaqueTypes() []*OpaqueType {
	out := make([]*OpaqueType, 0, len(s.opaqueOrder))
	for _, n := range s.opaqueOrder {
		out = append(out, s.opaqueTypes[n])
	}
	return out
}

// OpaqueType looks up an opaque type by name.
func (s *Surface) OpaqueType(name string) (*OpaqueType, bool) {
	o, ok := s.opaqueTypes[name]
	return o, ok
}

// Typedefs returns all CTypedef nodes in insertion order.
func (s *Surface) Typedefs() []*Typedef {
	out := make([]*Typedef, 0, len(s.typedefOrder))
	for _, n := range s.typedefOrder {
		out = append(out, s.typedefs[n])
	}
	return out
}

// Typedef looks up a typedef by name.
func (s *Surface) Typedef(name string) (*Typedef, bool) {
	t, ok := s.typedefs[name]
	return t, ok
}

// Enums returns all CEnum nodes in insertion order.
func (s *Surface) Enums() []*Enum {
	out := make([]*Enum, 0, len(s.enumOrder))
	for _, n := range s.enumOrder {
		out = append(out, s.enums[n])
	}
	return out
}

// Enum looks up an enum by name.
func (s *Surface) Enum(name string) (*Enum, bool) {
	e, ok := s.enums[name]
	return e, ok
}

// Variables returns all CVariable nodes in insertion order.
func (s *Surface) Variables() []*Variable {
	out := make([]*Variable, 0, len(s.variableOrder))
	for _, n := range s.variableOrder {
		out = append(out, s.variables[n])
	}
	return out
}

// Variable looks up a variable by name.
func (s *Surface) Variable(name string) (*Variable, bool) {
	v, ok := s.variables[name]
	return v, ok
}

// Macros returns all CMacroObject nodes in insertion order.
func (s *Surface) Macros() []*MacroObject {
	out := make([]*MacroObject, 0, len(s.macroOrder))
	for _, n := range s.macroOrder {
		out = append(out, s.macros[n])
	}
	return out
}

// Macro looks up a macro by name.
func (s *Surface) Macro(name string) (*MacroObject, bool) {
	m, ok := s.macros[name]
	return m, ok
}

// Types returns the full CType table in insertion order.
func (s *Surface) Types() []*Type {
	out := make([]*Type, 0, len(s.typeOrder))
	for _, n := range s.typeOrder {
		out = append(out, s.types[n])
	}
	return out
}

// Type resolves a type name in the CAS's type table (§3.1 invariant: every
// referenced type_name resolves here).
func (s *Surface) Type(name string) (*Type, bool) {
	t, ok := s.types[name]
	return t, ok
}
