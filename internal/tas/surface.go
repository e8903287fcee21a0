package tas

// Surface is the closed TAS: like cas.Surface, a mapping from
// (kind, name) to node plus the ordered root list, iteration order
// always following CAS insertion order (§4.3 "Determinism").
type Surface struct {
	Roots []Ref `json:"roots"`

	types            map[string]*Type
	typeOrder        []string
	functions        map[string]*Function
	functionOrder    []string
	functionPointers map[string]*FunctionPointer
	fnPointerOrder   []string
	records          map[string]*Record
	recordOrder      []string
	opaqueTypes      map[string]*OpaqueType
	opaqueOrder      []string
	enums            map[string]*Enum
	enumOrder        []string
	variables        map[string]*Variable
	variableOrder    []string
	macros           map[string]*MacroObject
	macroOrder       []string
}

func newSurface() *Surface {
	return &Surface{
		types:            make(map[string]*Type),
		functions:        make(map[string]*Function),
		functionPointers: make(map[string]*FunctionPointer),
		records:          make(map[string]*Record),
		opaqueTypes:      make(map[string]*OpaqueType),
		enums:            make(map[string]*Enum),
		variables:        make(map[string]*Variable),
		macros:           make(map[string]*MacroObject),
	}
}

func (s *Surface) Types() []*Type {
	out := make([]*Type, 0, len(s.typeOrder))
	for _, n := range s.typeOrder {
		out = append(out, s.types[n])
	}
	return out
}

func (s *Surface) Type(name string) (*Type, bool) { t, ok := s.types[name]; return t, ok }

func (s *Surface) Functions() []*Function {
	out := make([]*Function, 0, len(s.functionOrder))
	for _, n := range s.functionOrder {
		out = append(out, s.functions[n])
	}
	return out
}

func (s *Surface) Function(name string) (*Function, bool) { f, ok := s.functions[name]; return f, ok }

func (s *Surface) FunctionPointers() []*FunctionPointer {
	out := make([]*FunctionPointer, 0, len(s.fnPointerOrder))
	for _, n := range s.fnPointerOrder {
		out = append(out, s.functionPointers[n])
	}
	return out
}

func (s *Surface) FunctionPointer(name string) (*FunctionPointer, bool) {
	f, ok := s.functionPointers[name]
	return f, ok
}

func (s *Surface) Records() []*Record {
	out := make([]*Record, 0, len(s.recordOrder))
	for _, n := range s.recordOrder {
		out = append(out, s.records[n])
	}
	return out
}

func (s *Surface) Record(name string) (*Record, bool) { r, ok := s.records[name]; return r, ok }

func (s *Surface) OpaqueTypes() []*OpaqueType {
	out := make([]*OpaqueType, 0, len(s.opaqueOrder))
	for _, n := range s.opaqueOrder {
		out = append(out, s.opaqueTypes[n])
	}
	return out
}

func (s *Surface) OpaqueType(name string) (*OpaqueType, bool) { o, ok := s.opaqueTypes[name]; return o, ok }

func (s *Surface) Enums() []*Enum {
	out := make([]*Enum, 0, len(s.enumOrder))
	for _, n := range s.enumOrder {
		out = append(out, s.enums[n])
	}
	return out
}

func (s *Surface) Enum(name string) (*Enum, bool) { e, ok := s.enums[name]; return e, ok }

func (s *Surface) Variables() []*Variable {
	out := make([]*Variable, 0, len(s.variableOrder))
	for _, n := range s.variableOrder {
		out = append(out, s.variables[n])
	}
	return out
}

func (s *Surface) Variable(name string) (*Variable, bool) { v, ok := s.variables[name]; return v, ok }

func (s *Surface) Macros() []*MacroObject {
	out := make([]*MacroObject, 0, len(s.macroOrder))
	for _, n := range s.macroOrder {
		out = append(out, s.macros[n])
	}
	return out
}

func (s *Surface) Macro(name string) (*MacroObject, bool) { m, ok := s.macros[name]; return m, ok }
