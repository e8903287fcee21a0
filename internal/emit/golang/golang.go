// Package golang is the reference Emitter (spec §4.4) targeting Go. It
// satisfies the Emitter contract end-to-end: function vtable with a
// load_api/unload_api lifecycle, explicit-layout records, underlying-typed
// enums, opaque types as empty records, and read accessors for wrapped and
// char-buffer array fields. Other host languages remain contract-only.
package golang

import (
	"bytes"
	"fmt"
	"go/format"
	"strconv"
	"strings"
	"text/template"

	"github.com/ccsurface/c2x/internal/emit"
	"github.com/ccsurface/c2x/internal/tas"
)

// Emitter is the golang.Emitter implementation of emit.Emitter.
type Emitter struct {
	// PackageName names the generated Go package; defaults to "capi" if
	// empty.
	PackageName string
}

// New creates an Emitter with the given package name.
func New(packageName string) *Emitter {
	if packageName == "" {
		packageName = "capi"
	}
	return &Emitter{PackageName: packageName}
}

// Emit implements emit.Emitter.
func (e *Emitter) Emit(surface *tas.Surface, opts emit.Options) ([]byte, error) {
	data := buildData(e.PackageName, surface, opts)

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing golang emitter template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated source (%s): %w", opts.ClassName, err)
	}
	return formatted, nil
}

// --- template data shapes ---

type fileData struct {
	PackageName      string
	ClassName        string
	LibraryName      string
	OpaqueTypes      []opaqueData
	Enums            []enumData
	Records          []recordData
	FunctionPointers []fnPtrData
	Variables        []variableData
	Functions        []functionData
}

type opaqueData struct {
	Name string
}

type enumData struct {
	Name       string
	GoIntType  string
	Values     []enumValueData
}

type enumValueData struct {
	Name  string
	Value int64
}

type fieldData struct {
	Name               string
	GoType             string
	IsWrappedArray     bool
	WrappedElementType string
	WrappedGoType      string
	WrappedCount       int64
	IsCharBuffer       bool
	BufferLen          int64
	PaddingBytes       int64
}

type recordData struct {
	Name       string
	IsUnion    bool
	SizeBytes  int64
	Fields     []fieldData
}

type fnPtrData struct {
	Name       string
	GoSig      string
	IsBuiltin  bool
}

type variableData struct {
	Name   string
	GoType string
}

type paramData struct {
	Name   string
	GoType string
}

type functionData struct {
	Name       string
	CSymbol    string
	GoReturn   string
	Params     []paramData
	ParamList  string
	ArgList    string
}

// builtinGoTypes maps canonical target primitive names (§4.2/§4.3) to Go
// types. CString maps to *byte: the raw NUL-terminated pointer, matching
// "no runtime marshalling code generation" (§1 Non-goals) — callers
// convert via their own helpers, the Emitter only declares the shape.
var builtinGoTypes = map[string]string{
	"u8": "uint8", "i8": "int8",
	"u16": "uint16", "i16": "int16",
	"u32": "uint32", "i32": "int32",
	"u64": "uint64", "i64": "int64",
	"f32": "float32", "f64": "float64",
	"CBool": "bool", "void": "struct{}", "CString": "*byte",
}

var fnPtrBuiltinGoTypes = map[string]bool{
	"FnPtrVoid": true, "FnPtrPointerPointer": true,
	"FnPtrVoidPointer": true, "FnPtrInt": true,
}

func goTypeName(name string) string {
	if g, ok := builtinGoTypes[name]; ok {
		return g
	}
	if strings.HasSuffix(name, "*") {
		return "*" + goTypeName(strings.TrimSuffix(name, "*"))
	}
	if i := strings.LastIndexByte(name, '['); i >= 0 && strings.HasSuffix(name, "]") {
		elem := name[:i]
		n := name[i+1 : len(name)-1]
		return fmt.Sprintf("[%s]%s", n, goTypeName(elem))
	}
	return name
}

func buildData(pkg string, surface *tas.Surface, opts emit.Options) fileData {
	d := fileData{
		PackageName: pkg,
		ClassName:   opts.ClassName,
		LibraryName: opts.LibraryName,
	}
	if d.ClassName == "" {
		d.ClassName = "API"
	}

	for _, o := range surface.OpaqueTypes() {
		d.OpaqueTypes = append(d.OpaqueTypes, opaqueData{Name: o.Name})
	}

	for _, en := range surface.Enums() {
		goInt := "int32"
		if en.IntegerType == "u32" {
			goInt = "uint32"
		}
		ed := enumData{Name: en.Name, GoIntType: goInt}
		for _, v := range en.Values {
			ed.Values = append(ed.Values, enumValueData{Name: v.Name, Value: v.Value})
		}
		d.Enums = append(d.Enums, ed)
	}

	for _, r := range surface.Records() {
		collectRecords(&d.Records, r)
	}

	seenFnPtr := make(map[string]bool)
	addFnPtr := func(fp *tas.FunctionPointer) {
		if seenFnPtr[fp.Name] {
			return
		}
		seenFnPtr[fp.Name] = true
		d.FunctionPointers = append(d.FunctionPointers, buildFnPtr(fp))
	}
	for _, fp := range surface.FunctionPointers() {
		addFnPtr(fp)
	}
	for _, r := range surface.Records() {
		collectFnPtrs(r, addFnPtr)
	}

	for _, v := range surface.Variables() {
		d.Variables = append(d.Variables, variableData{Name: v.Name, GoType: goTypeName(v.Type)})
	}

	for _, f := range surface.Functions() {
		d.Functions = append(d.Functions, buildFunction(f))
	}

	return d
}

// collectRecords flattens r and everything under r.NestedRecords into out,
// in declaration order: Go has no nested-type syntax matching C's
// anonymous nested struct/union, so each nested record Mapper-C/Mapper-
// Target already named becomes its own top-level Go type, referenced by
// name from the parent's field (the nested record's own name is what
// Explorer/Mapper-C synthesized for it, e.g. "Anonymous_Union_u").
func collectRecords(out *[]recordData, r *tas.Record) {
	rd := recordData{Name: r.Name, IsUnion: r.IsUnion, SizeBytes: r.SizeBytes}
	for _, f := range r.Fields {
		rd.Fields = append(rd.Fields, buildField(f))
	}
	*out = append(*out, rd)
	for _, nr := range r.NestedRecords {
		collectRecords(out, nr)
	}
}

// collectFnPtrs walks r's nested function pointers and nested records for
// more of the same, invoking add for each one found (deduplicated by the
// caller).
func collectFnPtrs(r *tas.Record, add func(*tas.FunctionPointer)) {
	for _, fp := range r.NestedFunctionPointers {
		add(fp)
	}
	for _, nr := range r.NestedRecords {
		collectFnPtrs(nr, add)
	}
}

func buildField(f tas.StructField) fieldData {
	fd := fieldData{Name: f.Name, PaddingBytes: f.PaddingBits / 8}

	if f.IsWrappedArray {
		fd.IsWrappedArray = true
		fd.WrappedElementType = f.WrappedElementType
		fd.WrappedGoType = goTypeName(f.WrappedElementType)
		fd.WrappedCount = f.WrappedCount
		if strings.HasSuffix(f.Type, "]") {
			fd.GoType = goTypeName(f.Type)
		} else {
			fd.GoType = fmt.Sprintf("[%d]byte", f.WrappedCount*elementByteWidth(f.WrappedElementType))
		}
		return fd
	}

	fd.GoType = goTypeName(f.Type)

	// A non-wrapped fixed buffer of u8 is exactly §4.2's char->u8
	// canonicalisation target; the distinction between "byte buffer" and
	// "C string buffer" doesn't survive canonicalisation, so every such
	// buffer gets a string accessor in addition to its raw bytes (see
	// DESIGN.md's "char[] accessor" decision).
	if i := strings.LastIndexByte(f.Type, '['); i >= 0 && f.Type[:i] == "u8" {
		n, err := strconv.ParseInt(f.Type[i+1:len(f.Type)-1], 10, 64)
		if err == nil {
			fd.IsCharBuffer = true
			fd.BufferLen = n
		}
	}
	return fd
}

func elementByteWidth(name string) int64 {
	switch name {
	case "u8", "i8", "CBool":
		return 1
	case "u16", "i16":
		return 2
	case "u32", "i32", "f32":
		return 4
	case "u64", "i64", "f64":
		return 8
	default:
		return 8 // pointer-sized fallback for a wrapped struct/record element
	}
}

func buildFnPtr(fp *tas.FunctionPointer) fnPtrData {
	params := make([]string, len(fp.Parameters))
	for i, p := range fp.Parameters {
		params[i] = goTypeName(p.Type)
	}
	sig := fmt.Sprintf("func(%s) %s", strings.Join(params, ", "), goTypeName(fp.ReturnType))
	return fnPtrData{Name: fp.Name, GoSig: sig, IsBuiltin: fnPtrBuiltinGoTypes[fp.Name]}
}

func buildFunction(f *tas.Function) functionData {
	goName := ""
	for _, part := range strings.Split(f.Name, "_") {
		goName += exportedName(part)
	}
	if goName == "" {
		goName = exportedName(f.Name)
	}
	fd := functionData{Name: goName, CSymbol: f.Name, GoReturn: goTypeName(f.ReturnType)}
	var paramNames, paramDecls []string
	for _, p := range f.Parameters {
		fd.Params = append(fd.Params, paramData{Name: p.Name, GoType: goTypeName(p.Type)})
		paramDecls = append(paramDecls, fmt.Sprintf("%s %s", p.Name, goTypeName(p.Type)))
		paramNames = append(paramNames, p.Name)
	}
	fd.ParamList = strings.Join(paramDecls, ", ")
	fd.ArgList = strings.Join(paramNames, ", ")
	return fd
}

func exportedName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

var funcMap = template.FuncMap{
	"title": exportedName,
}

var fileTemplate = template.Must(template.New("golang_emit").Funcs(funcMap).Parse(`// Code generated by c2x. DO NOT EDIT.

package {{.PackageName}}

import (
	"bytes"
	"unsafe"

	"github.com/ebitengine/purego"
)

{{range .OpaqueTypes}}
// {{.Name}} is an opaque handle; the C definition is not visible to the
// extractor, so it carries no fields.
type {{.Name}} struct{}
{{end}}

{{range $e := .Enums}}
type {{.Name}} {{.GoIntType}}

const (
{{- range .Values}}
	{{$e.Name}}{{.Name}} {{$e.Name}} = {{.Value}}
{{- end}}
)
{{end}}

{{range .FunctionPointers}}
type {{.Name}} = {{.GoSig}}
{{end}}

{{range $r := .Records}}
{{- if .IsUnion}}
// {{.Name}} is a union: its fields share a single backing buffer of
// {{.SizeBytes}} bytes, every field at offset 0.
type {{.Name}} struct {
	data [{{.SizeBytes}}]byte
}
{{range .Fields}}
func (v *{{$r.Name}}) {{.Name | title}}() *{{.GoType}} {
	return (*{{.GoType}})(unsafe.Pointer(&v.data[0]))
}
{{end}}
{{- else}}
type {{.Name}} struct {
{{- range .Fields}}
	{{- if gt .PaddingBytes 0}}
	_ [{{.PaddingBytes}}]byte
	{{- end}}
	{{.Name | title}} {{.GoType}}
{{- end}}
}

func init() {
	if unsafe.Sizeof({{.Name}}{}) != {{.SizeBytes}} {
		panic("c2x: {{.Name}} layout size mismatch")
	}
}
{{range .Fields}}
{{- if .IsWrappedArray}}
// {{.Name | title}} returns a typed view over the inline buffer backing
// this wrapped array field (§4.4 "read accessor... typed as the original
// element type").
func (v *{{$r.Name}}) {{.Name | title}}() []{{.WrappedGoType}} {
	return unsafe.Slice((*{{.WrappedGoType}})(unsafe.Pointer(&v.{{.Name | title}}[0])), {{.WrappedCount}})
}
{{- end}}
{{- if .IsCharBuffer}}
// {{.Name | title}}String returns the NUL-terminated contents of
// {{.Name}} as a Go string.
func (v *{{$r.Name}}) {{.Name | title}}String() string {
	n := bytes.IndexByte(v.{{.Name | title}}[:], 0)
	if n < 0 {
		n = len(v.{{.Name | title}})
	}
	return string(v.{{.Name | title}}[:n])
}
{{- end}}
{{end}}
{{- end}}
{{end}}

{{range .Variables}}
var {{.Name | title}} *{{.GoType}}
{{end}}

// {{.ClassName}} is the virtual table: every function is a late-bound
// indirect call through a function-pointer field, populated by load_api
// from the dynamic library named by {{.LibraryName}} (§4.4).
type {{.ClassName}} struct {
	handle uintptr

{{- range .Functions}}
	{{.Name}} func({{.ParamList}}) {{.GoReturn}}
{{- end}}
}

// load_api opens path (or the configured library name when path is empty)
// and resolves every vtable entry and global-variable pointer by symbol
// name (§4.4 "load_api(path?) ... populate the table").
func (api *{{.ClassName}}) load_api(path string) error {
	if path == "" {
		path = "{{.LibraryName}}"
	}
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return err
	}
	api.handle = handle

{{range .Functions}}
	if sym, err := purego.Dlsym(handle, "{{.CSymbol}}"); err == nil {
		purego.RegisterFunc(&api.{{.Name}}, sym)
	}
{{end}}
{{range .Variables}}
	if sym, err := purego.Dlsym(handle, "{{.Name}}"); err == nil {
		{{.Name | title}} = (*{{.GoType}})(unsafe.Pointer(sym))
	}
{{end}}
	return nil
}

// unload_api releases the dynamic library and zeroes the table (§4.4
// "unload_api() ... zero the table").
func (api *{{.ClassName}}) unload_api() error {
	if api.handle == 0 {
		return nil
	}
	err := purego.Dlclose(api.handle)
	*api = {{.ClassName}}{}
	return err
}
`))
