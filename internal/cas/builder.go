package cas

import "fmt"

// Builder accumulates CAS nodes during Mapper-C's single pass over the
// Explorer's cursor maps (§3.2 "Lifecycle": "All CAS/TAS nodes are created
// during a single pass over the predecessor surface; they are immutable
// thereafter"). Call Freeze to obtain the immutable Surface.
type Builder struct {
	s *Surface
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{s: newSurface()}
}

// AddRoot appends ref to the ordered root list. Roots are recorded in
// discovery order and never deduplicated — a declaration can be rooted more
// than once only if Explorer enqueued it more than once, which AddFunction
// et al. already guard against for the underlying node.
func (b *Builder) AddRoot(ref Ref) {
	b.s.Roots = append(b.s.Roots, ref)
}

// AddFunction inserts f, deduplicating by name (§4.1 "Two cursors with
// identical canonical type identity map to the same CAS node"). Returns
// false if a function with this name was already present (the second
// insertion is a no-op, matching CAS's unique-by-kind-and-name invariant).
func (b *Builder) AddFunction(f *Function) bool {
	if _, exists := b.s.functions[f.Name]; exists {
		return false
	}
	b.s.functions[f.Name] = f
	b.s.functionOrder = append(b.s.functionOrder, f.Name)
	return true
}

// AddFunctionPointer inserts fp, deduplicating by name.
func (b *Builder) AddFunctionPointer(fp *FunctionPointer) bool {
	if _, exists := b.s.functionPointers[fp.Name]; exists {
		return false
	}
	b.s.functionPointers[fp.Name] = fp
	b.s.fnPointerOrder = append(b.s.fnPointerOrder, fp.Name)
	return true
}

// AddRecord inserts r as a top-level record, deduplicating by name. No-op
// if an OpaqueType with the same name is already present: forward
// declarations later resolved to a definition must go through
// PromoteOpaqueToRecord, which is the only path that retires the opaque
// entry, preserving §3.1's "never both" invariant from either direction.
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

// AddOpaqueType inserts o, deduplicating by name. No-op if a complete
// Record with the same name is already present, preserving §3.1's
// "never both" invariant.
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

// PromoteOpaqueToRecord removes name from the opaque-type set (if present)
// so r can take its place, matching §4.1's "resolves to the definition if
// available" rule.
func (b *Builder) PromoteOpaqueToRecord(r *Record) {
	if _, exists := b.s.opaqueTypes[r.Name]; exists {
		delete(b.s.opaqueTypes, r.Name)
		b.s.opaqueOrder = removeString(b.s.opaqueOrder, r.Name)
	}
	if _, exists := b.s.records[r.Name]; !exists {
		b.s.records[r.Name] = r
		b.s.recordOrder = append(b.s.recordOrder, r.Name)
	}
}

// AddTypedef inserts t, deduplicating by name.
func (b *Builder) AddTypedef(t *Typedef) bool {
	if _, exists := b.s.typedefs[t.Name]; exists {
		return false
	}
	b.s.typedefs[t.Name] = t
	b.s.typedefOrder = append(b.s.typedefOrder, t.Name)
	return true
}

// AddEnum inserts e, deduplicating by name.
func (b *Builder) AddEnum(e *Enum) bool {
	if _, exists := b.s.enums[e.Name]; exists {
		return false
	}
	b.s.enums[e.Name] = e
	b.s.enumOrder = append(b.s.enumOrder, e.Name)
	return true
}

// AddVariable inserts v, deduplicating by name.
func (b *Builder) AddVariable(v *Variable) bool {
	if _, exists := b.s.variables[v.Name]; exists {
		return false
	}
	b.s.variables[v.Name] = v
	b.s.variableOrder = append(b.s.variableOrder, v.Name)
	return true
}

// AddMacro inserts m, deduplicating by name.
func (b *Builder) AddMacro(m *MacroObject) bool {
	if _, exists := b.s.macros[m.Name]; exists {
		return false
	}
	b.s.macros[m.Name] = m
	b.s.macroOrder = append(b.s.macroOrder, m.Name)
	return true
}

// AddType inserts or replaces a CType in the type table. Unlike the other
// Add* methods, types are content-addressed by canonical name and may
// legitimately be (re-)inserted as the same type is reached from multiple
// declarations; the first insertion fixes the type's position in
// iteration order.
func (b *Builder) AddType(t *Type) {
	if _, exists := b.s.types[t.Name]; !exists {
		b.s.typeOrder = append(b.s.typeOrder, t.Name)
	}
	b.s.types[t.Name] = t
}

// HasRecord reports whether a complete record with this name is already
// present.
func (b *Builder) HasRecord(name string) bool {
	_, ok := b.s.records[name]
	return ok
}

// HasOpaqueType reports whether an opaque type with this name is already
// present.
func (b *Builder) HasOpaqueType(name string) bool {
	_, ok := b.s.opaqueTypes[name]
	return ok
}

// HasType reports whether name already resolves in the type table.
func (b *Builder) HasType(name string) bool {
	_, ok := b.s.types[name]
	return ok
}

// Freeze finalizes the Surface. After Freeze the Builder must not be
// mutated further.
func (b *Builder) Freeze() *Surface {
	return b.s
}

func removeString(ss []string, s string) []string {
	out := ss[:0]
	for _, v := range ss {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

// Validate checks the §3.1/§8 invariant that can be verified structurally:
// every type name referenced by a function's return or parameter types, or
// by a record's fields (nested records included), resolves.
// Errors here are the fatal, abort-extraction kind (§4.1 "An unresolved
// type reference is fatal").
func (s *Surface) Validate() error {
	resolve := func(name string) error {
		if name == "" {
			return nil
		}
		if _, ok := s.types[name]; ok {
			return nil
		}
		return fmt.Errorf("unresolved type reference: %q", name)
	}

	for _, f := range s.Functions() {
		if err := resolve(f.ReturnType); err != nil {
			return fmt.Errorf("function %s: %w", f.Name, err)
		}
		for _, p := range f.Parameters {
			// Empty or duplicate parameter spellings are expected raw input
			// here, not a CAS-level defect: internal/mapt's sanitizeParameters
			// is what assigns and disambiguates names, further downstream.
			if err := resolve(p.Type); err != nil {
				return fmt.Errorf("function %s: %w", f.Name, err)
			}
		}
	}
	for _, r := range s.Records() {
		if err := validateRecord(r, resolve); err != nil {
			return err
		}
	}
	return nil
}

func validateRecord(r *Record, resolve func(string) error) error {
	var total int64
	for _, f := range r.Fields {
		if err := resolve(f.Type); err != nil {
			return fmt.Errorf("record %s field %s: %w", r.Name, f.Name, err)
		}
		total += f.OffsetBits
	}
	for _, nr := range r.NestedRecords {
		if err := validateRecord(nr, resolve); err != nil {
			return err
		}
	}
	return nil
}
