// Package mapt implements the Mapper-Target stage (spec §4.3):
// transforms CAS into TAS under an alias table and an ignored-name set,
// applying built-in mapping, array wrapping, parameter/identifier
// sanitisation, function-pointer canonicalisation, and enum integer
// normalisation.
package mapt

import (
	"fmt"

	"github.com/ccsurface/c2x/internal/cas"
	"github.com/ccsurface/c2x/internal/diag"
	"github.com/ccsurface/c2x/internal/tas"
)

// Alias maps a CAS name to a target name (spec §6 config field `aliases`:
// list of {from, to} name pairs).
type Alias struct {
	From string
	To   string
}

// Config is Mapper-Target's input beyond the CAS itself (§4.3
// "Responsibility... under three inputs: (a) the CAS, (b) a user-supplied
// alias table... (c) an ignored-name set").
type Config struct {
	Aliases      []Alias
	IgnoredNames map[string]bool
	// ReservedWords lists target-host-language identifiers that collide
	// with a parameter/field name and must be sanitised (§4.3 point 5:
	// "specify the list of sanitised inputs, not the output form").
	ReservedWords map[string]bool
	// EscapeMarker prefixes a sanitised identifier; target-specific
	// (§4.3 point 5).
	EscapeMarker string
}

// targetPrimitives are the built-in target types an alias may shadow
// (§4.3 point 1).
var targetPrimitives = map[string]bool{
	"u8": true, "i8": true, "u16": true, "i16": true,
	"u32": true, "i32": true, "u64": true, "i64": true,
	"f32": true, "f64": true, "CBool": true, "void": true, "CString": true,
}

// fnPtrBuiltinShapes maps a canonical "(ret)(params...)" shape string to
// its §4.3 point 6 built-in name.
var fnPtrBuiltinShapes = map[string]string{
	"void()":       "FnPtrVoid",
	"void*(void*)": "FnPtrPointerPointer",
	"void(void*)":  "FnPtrVoidPointer",
	"i32()":        "FnPtrInt",
}

type mapper struct {
	cfg       Config
	cas       *cas.Surface
	b         *tas.Builder
	collector *diag.Collector
	// aliasFrom maps a CAS name to its resolved alias target, when an
	// alias is in effect and doesn't shadow a built-in (§4.3 point 1).
	aliasFrom map[string]string
	// suppressed holds CAS names whose node must not surface in TAS at
	// all: ignored names, plus alias targets that shadow a built-in.
	suppressed map[string]bool
}

// Map transforms surface into TAS per cfg.
func Map(surface *cas.Surface, cfg Config, collector *diag.Collector) *tas.Surface {
	m := &mapper{
		cas:        surface,
		cfg:        cfg,
		b:          tas.NewBuilder(),
		collector:  collector,
		aliasFrom:  make(map[string]string),
		suppressed: make(map[string]bool),
	}
	if m.cfg.IgnoredNames == nil {
		m.cfg.IgnoredNames = map[string]bool{}
	}
	if m.cfg.ReservedWords == nil {
		m.cfg.ReservedWords = map[string]bool{}
	}
	if m.cfg.EscapeMarker == "" {
		m.cfg.EscapeMarker = "_"
	}

	m.resolveAliases()
	m.mapTypes()

	for _, f := range surface.Functions() {
		m.mapFunction(f)
	}
	for _, fp := range surface.FunctionPointers() {
		m.buildFunctionPointer(fp)
	}
	for _, r := range surface.Records() {
		m.mapTopLevelRecord(r)
	}
	for _, o := range surface.OpaqueTypes() {
		m.mapOpaqueType(o)
	}
	for _, e := range surface.Enums() {
		m.mapEnum(e)
	}
	for _, v := range surface.Variables() {
		m.mapVariable(v)
	}
	for _, mo := range surface.Macros() {
		m.mapMacro(mo)
	}

	return m.b.Freeze()
}

// resolveAliases implements §4.3 point 1. An alias whose target is a
// built-in suppresses the CAS node entirely (to avoid double-emission);
// otherwise the mapping is recorded and later lookups rewrite references.
func (m *mapper) resolveAliases() {
	for _, a := range m.cfg.Aliases {
		if targetPrimitives[a.To] {
			m.suppressed[a.From] = true
			m.collector.Add(diag.Diagnostic{
				Severity: diag.Warning,
				Kind:     diag.AliasShadowsBuiltin,
				Name:     a.From,
				Message:  fmt.Sprintf("alias target %q collides with a target built-in type", a.To),
			})
			continue
		}
		m.aliasFrom[a.From] = a.To
	}
}

// resolveName applies alias rewriting and ignored-name filtering to a CAS
// name reference, returning ("", false) when the name must not surface.
func (m *mapper) resolveName(name string) (string, bool) {
	if name == "" {
		return "", true
	}
	if m.cfg.IgnoredNames[name] || m.suppressed[name] {
		return "", false
	}
	if to, ok := m.aliasFrom[name]; ok {
		return to, true
	}
	return name, true
}

// mapTypes copies CAS's type table into TAS, renaming through aliases and
// dropping ignored/shadowed entries (§4.3 point 2: "System-tagged types
// are mapped per §4.2 rules; user types pass through their canonicalised
// name").
func (m *mapper) mapTypes() {
	for _, t := range m.cas.Types() {
		name, ok := m.resolveName(t.Name)
		if !ok {
			continue
		}
		tt := &tas.Type{
			Name:        name,
			SizeBytes:   t.SizeBytes,
			AlignBytes:  t.AlignBytes,
			ArraySize:   t.ArraySize,
			ElementSize: t.ElementSize,
			IsBuiltin:   t.Kind == cas.TypeBuiltin,
		}
		m.b.AddType(tt)
	}
}

func (m *mapper) mapFunction(f *cas.Function) {
	name, ok := m.resolveName(f.Name)
	if !ok {
		return
	}
	retType, ok := m.resolveName(f.ReturnType)
	if !ok {
		retType = f.ReturnType
	}

	params := m.sanitizeParameters(f.Parameters)

	m.b.AddFunction(&tas.Function{
		Name:              name,
		ReturnType:        retType,
		CallingConvention: f.CallingConvention,
		Parameters:        params,
		Location:          f.Location,
	})
	m.b.AddRoot(tas.Ref{Kind: tas.NodeFunction, Name: name})
}

// sanitizeParameters implements §4.3 points 4-5: empty/duplicate names
// get param/param2/... suffixes, and any name colliding with a reserved
// word is escape-prefixed.
func (m *mapper) sanitizeParameters(params []cas.FunctionParameter) []tas.Parameter {
	out := make([]tas.Parameter, len(params))
	seen := make(map[string]int, len(params))
	emptyCount := 0

	for i, p := range params {
		name := p.Name
		if name == "" {
			emptyCount++
			if emptyCount == 1 {
				name = "param"
			} else {
				name = fmt.Sprintf("param%d", emptyCount)
			}
		}
		if m.cfg.ReservedWords[name] {
			name = m.cfg.EscapeMarker + name
		}
		if n, dup := seen[name]; dup {
			n++
			seen[name] = n
			name = fmt.Sprintf("%s%d", name, n+1)
		} else {
			seen[name] = 0
		}

		typeName, ok := m.resolveName(p.Type)
		if !ok {
			typeName = p.Type
		}
		out[i] = tas.Parameter{Name: name, Type: typeName}
	}
	return out
}

func (m *mapper) mapTopLevelRecord(r *cas.Record) {
	name, ok := m.resolveName(r.Name)
	if !ok {
		return
	}
	tr := m.buildRecord(r, name)
	m.b.AddRecord(tr)
	m.b.AddRoot(tas.Ref{Kind: tas.NodeRecord, Name: name})
}

func (m *mapper) buildRecord(r *cas.Record, name string) *tas.Record {
	fields := make([]tas.StructField, 0, len(r.Fields))
	for _, f := range r.Fields {
		tf, ok := m.buildField(f)
		if !ok {
			continue
		}
		fields = append(fields, tf)
	}

	nestedRecords := make([]*tas.Record, 0, len(r.NestedRecords))
	for _, nr := range r.NestedRecords {
		nestedName, ok := m.resolveName(nr.Name)
		if !ok {
			continue
		}
		nestedRecords = append(nestedRecords, m.buildRecord(nr, nestedName))
	}

	nestedFnPtrs := make([]*tas.FunctionPointer, 0, len(r.NestedFunctionPointers))
	for _, fp := range r.NestedFunctionPointers {
		t := m.buildFunctionPointer(fp)
		if t != nil {
			nestedFnPtrs = append(nestedFnPtrs, t)
		}
	}

	var sizeBytes, alignBytes int64
	if ct, ok := m.cas.Type(r.Name); ok {
		sizeBytes, alignBytes = ct.SizeBytes, ct.AlignBytes
	}

	return &tas.Record{
		Name:                   name,
		IsUnion:                r.IsUnion,
		Fields:                 fields,
		NestedRecords:          nestedRecords,
		NestedFunctionPointers: nestedFnPtrs,
		SizeBytes:              sizeBytes,
		AlignBytes:             alignBytes,
		Location:               r.Location,
	}
}

// buildField implements §4.3 point 3 (array wrapping) plus name
// resolution/ignored filtering for an ordinary (non-array) field.
func (m *mapper) buildField(f cas.RecordField) (tas.StructField, bool) {
	fieldName := f.Name
	if m.cfg.ReservedWords[fieldName] {
		fieldName = m.cfg.EscapeMarker + fieldName
	}

	ct, hasType := m.cas.Type(f.Type)
	if hasType && ct.Kind == cas.TypeConstArray && ct.ElementSize != nil && ct.ArraySize != nil {
		elemType, _ := m.elementTypeOf(ct)
		elemName, ok := m.resolveName(elemNameOf(ct))
		if !ok {
			return tas.StructField{}, false
		}
		if elemType != nil && elemType.Kind == cas.TypeBuiltin {
			return tas.StructField{
				Name:        fieldName,
				Type:        fmt.Sprintf("%s[%d]", elemName, *ct.ArraySize),
				OffsetBits:  f.OffsetBits,
				PaddingBits: f.PaddingBits,
			}, true
		}
		return tas.StructField{
			Name:               fieldName,
			Type:               fmt.Sprintf("u8[%d]", ct.SizeBytes),
			OffsetBits:         f.OffsetBits,
			PaddingBits:        f.PaddingBits,
			IsWrappedArray:     true,
			WrappedElementType: elemName,
			WrappedCount:       *ct.ArraySize,
		}, true
	}

	typeName, ok := m.resolveName(f.Type)
	if !ok {
		return tas.StructField{}, false
	}
	return tas.StructField{
		Name:        fieldName,
		Type:        typeName,
		OffsetBits:  f.OffsetBits,
		PaddingBits: f.PaddingBits,
	}, true
}

func elemNameOf(ct *cas.Type) string {
	// ct.Name has the form "Elem[N]"; the element type was registered
	// separately under its own name, recoverable by trimming the suffix.
	name := ct.Name
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '[' {
			return name[:i]
		}
	}
	return name
}

func (m *mapper) elementTypeOf(ct *cas.Type) (*cas.Type, bool) {
	return m.cas.Type(elemNameOf(ct))
}

func (m *mapper) mapOpaqueType(o *cas.OpaqueType) {
	name, ok := m.resolveName(o.Name)
	if !ok {
		return
	}
	m.b.AddOpaqueType(&tas.OpaqueType{Name: name, Location: o.Location})
	m.b.AddRoot(tas.Ref{Kind: tas.NodeOpaqueType, Name: name})
}

func (m *mapper) mapEnum(e *cas.Enum) {
	name, ok := m.resolveName(e.Name)
	if !ok {
		return
	}

	var intType string
	switch e.IntegerType {
	case "i32", "u32":
		intType = e.IntegerType
	default:
		m.collector.Add(diag.Diagnostic{
			Severity: diag.Error,
			Kind:     diag.NotImplemented,
			Name:     e.Name,
			Location: e.Location,
			Message:  fmt.Sprintf("enum integer type %q is not i32/u32", e.IntegerType),
		})
		return
	}

	values := make([]tas.EnumValue, len(e.Values))
	for i, v := range e.Values {
		values[i] = tas.EnumValue{Name: v.Name, Value: v.Value}
	}

	m.b.AddEnum(&tas.Enum{Name: name, IntegerType: intType, Values: values, Location: e.Location})
	m.b.AddRoot(tas.Ref{Kind: tas.NodeEnum, Name: name})
}

func (m *mapper) mapVariable(v *cas.Variable) {
	name, ok := m.resolveName(v.Name)
	if !ok {
		return
	}
	typeName, ok := m.resolveName(v.Type)
	if !ok {
		typeName = v.Type
	}
	m.b.AddVariable(&tas.Variable{Name: name, Type: typeName, Location: v.Location})
	m.b.AddRoot(tas.Ref{Kind: tas.NodeVariable, Name: name})
}

func (m *mapper) mapMacro(mo *cas.MacroObject) {
	name, ok := m.resolveName(mo.Name)
	if !ok {
		return
	}
	m.b.AddMacro(&tas.MacroObject{Name: name, Tokens: mo.Tokens, Location: mo.Location})
	m.b.AddRoot(tas.Ref{Kind: tas.NodeMacroObject, Name: name})
}

// buildFunctionPointer implements §4.3 point 6: a fixed table maps
// common shapes to canonical built-in names; anything else keeps its
// Mapper-C-synthesized or typedef-derived name.
func (m *mapper) buildFunctionPointer(fp *cas.FunctionPointer) *tas.FunctionPointer {
	name, ok := m.resolveName(fp.Name)
	if !ok {
		return nil
	}

	params := make([]tas.Parameter, len(fp.Parameters))
	shapeParams := ""
	for i, p := range fp.Parameters {
		typeName, ok := m.resolveName(p.Type)
		if !ok {
			typeName = p.Type
		}
		params[i] = tas.Parameter{Name: p.Name, Type: typeName}
		if i > 0 {
			shapeParams += ","
		}
		shapeParams += typeName
	}
	retType, ok := m.resolveName(fp.ReturnType)
	if !ok {
		retType = fp.ReturnType
	}
	shape := fmt.Sprintf("%s(%s)", retType, shapeParams)
	if canonical, isBuiltinShape := fnPtrBuiltinShapes[shape]; isBuiltinShape {
		name = canonical
	}

	tfp := &tas.FunctionPointer{Name: name, ReturnType: retType, Parameters: params, Location: fp.Location}
	if m.b.AddFunctionPointer(tfp) && !fp.IsSynthetic {
		m.b.AddRoot(tas.Ref{Kind: tas.NodeFunctionPointer, Name: name})
	}
	return tfp
}
