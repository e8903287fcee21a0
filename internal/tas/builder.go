package tas

// Builder accumulates TAS nodes during Mapper-Target's single pass over
// CAS (§3.2 "Lifecycle"). Call Freeze to obtain the immutable Surface.
// Like cas.Builder, the Add* node methods refuse a same-named second
// entry: they keep the first one and return false. AddType is the
// exception; it overwrites a same-named prior type in place.
type Builder struct {
	s *Surface
}

func NewBuilder() *Builder { return &Builder{s: newSurface()} }

func (b *Builder) AddRoot(ref Ref) { b.s.Roots = append(b.s.Roots, ref) }

func (b *Builder) AddType(t *Type) {
	if _, exists := b.s.types[t.Name]; !exists {
		b.s.typeOrder = append(b.s.typeOrder, t.Name)
	}
	b.s.types[t.Name] = t
}

func (b *Builder) AddFunction(f *Function) bool {
	if _, exists := b.s.functions[f.Name]; exists {
		return false
	}
	b.s.functions[f.Name] = f
	b.s.functionOrder = append(b.s.functionOrder, f.Name)
	return true
}

func (b *Builder) AddFunctionPointer(fp *FunctionPointer) bool {
	if _, exists := b.s.functionPointers[fp.Name]; exists {
		return false
	}
	b.s.functionPointers[fp.Name] = fp
	b.s.fnPointerOrder = append(b.s.fnPointerOrder, fp.Name)
	return true
}

func (b *Builder) AddRecord(r *Record) bool {
	if _, exists := b.s.records[r.Name]; exists {
		return false
	}
	if _, exists := b.s.opaqueTypes[r.Name]; exists {
		return false
	}
	b.s.records[r.Name] = r
	b.s.recordOrder = append(b.s.recordOrder, r.Name)
	return true
}

func (b *Builder) AddOpaqueType(o *OpaqueType) bool {
	if _, exists := b.s.records[o.Name]; exists {
		return false
	}
	if _, exists := b.s.opaqueTypes[o.Name]; exists {
		return false
	}
	b.s.opaqueTypes[o.Name] = o
	b.s.opaqueOrder = append(b.s.opaqueOrder, o.Name)
	return true
}

func (b *Builder) AddEnum(e *Enum) bool {
	if _, exists := b.s.enums[e.Name]; exists {
		return false
	}
	b.s.enums[e.Name] = e
	b.s.enumOrder = append(b.s.enumOrder, e.Name)
	return true
}

func (b *Builder) AddVariable(v *Variable) bool {
	if _, exists := b.s.variables[v.Name]; exists {
		return false
	}
	b.s.variables[v.Name] = v
	b.s.variableOrder = append(b.s.variableOrder, v.Name)
	return true
}

func (b *Builder) AddMacro(m *MacroObject) bool {
	if _, exists := b.s.macros[m.Name]; exists {
		return false
	}
	b.s.macros[m.Name] = m
	b.s.macroOrder = append(b.s.macroOrder, m.Name)
	return true
}

func (b *Builder) HasName(name string) bool {
	if _, ok := b.s.records[name]; ok {
		return true
	}
	if _, ok := b.s.opaqueTypes[name]; ok {
		return true
	}
	if _, ok := b.s.functionPointers[name]; ok {
		return true
	}
	if _, ok := b.s.enums[name]; ok {
		return true
	}
	if _, ok := b.s.variables[name]; ok {
		return true
	}
	if _, ok := b.s.macros[name]; ok {
		return true
	}
	return false
}

func (b *Builder) Freeze() *Surface { return b.s }
