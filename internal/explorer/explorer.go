// Package explorer implements the Explorer stage (spec §4.1): a
// breadth-first closure over the parser's cursor tree starting from the
// functions, variables and macros declared in the user's header set, producing the ordered
// cursor maps Mapper-C drains into CAS.
package explorer

import (
	"strings"

	"github.com/ccsurface/c2x/internal/diag"
	"github.com/ccsurface/c2x/internal/parser"
)

// Result is the Explorer's output: four maps plus ordered discovery
// lists, still addressed by parser.Cursor (§4.1 "produce four maps...
// plus ordered lists").
type Result struct {
	// Names holds the synthesized or resolved name for every discovered
	// cursor, keyed by cursor ID.
	Names map[string]string

	// FunctionParameters holds, per function cursor ID, its parameter
	// cursors in declaration order.
	FunctionParameters map[string][]parser.Cursor

	// RecordFields holds, per record cursor ID, its field cursors in
	// declaration order.
	RecordFields map[string][]parser.Cursor

	// EnumValues holds, per enum cursor ID, its enum-constant cursors in
	// declaration order.
	EnumValues map[string][]parser.Cursor

	// Functions, Records, FunctionPointers, OpaqueTypes, Enums, and
	// Variables are the ordered top-level discovery lists (§4.1).
	Functions        []parser.Cursor
	Records          []parser.Cursor
	FunctionPointers []parser.Cursor
	OpaqueTypes      []parser.Cursor
	Enums            []parser.Cursor
	Variables        []parser.Cursor
	Typedefs         []parser.Cursor
	Macros           []parser.Cursor

	// IsSystem flags, per cursor ID, whether the cursor was declared in a
	// system header (§4.1 "System-header types are tagged is_system=true").
	IsSystem map[string]bool
}

func newResult() *Result {
	return &Result{
		Names:              make(map[string]string),
		FunctionParameters: make(map[string][]parser.Cursor),
		RecordFields:       make(map[string][]parser.Cursor),
		EnumValues:         make(map[string][]parser.Cursor),
		IsSystem:           make(map[string]bool),
	}
}

// explorer carries the BFS queue/visited-set state for one run.
type explorer struct {
	res       *Result
	collector *diag.Collector
	visited   map[string]bool
	queue     []parser.Cursor
	// recordByName dedupes top-level records by name across forward
	// declaration + definition (§4.1 "Deduplication").
	recordByName map[string]parser.Cursor
	// opaqueByName tracks which names are currently only forward-declared.
	opaqueByName map[string]bool
}

// Explore walks root's children breadth-first, discovering every function,
// variable and macro declared (not merely referenced) in root and the
// closure of types they reference. collector receives AnonymousNamed /
// unknown-cursor-kind diagnostics; it never aborts the walk (the fatal
// unresolved-type error comes later, from cas.Surface.Validate).
func Explore(root parser.Cursor, collector *diag.Collector) *Result {
	e := &explorer{
		res:          newResult(),
		collector:    collector,
		visited:      make(map[string]bool),
		recordByName: make(map[string]parser.Cursor),
		opaqueByName: make(map[string]bool),
	}

	root.VisitChildren(func(c parser.Cursor) bool {
		switch c.Kind() {
		case parser.KindFunctionDecl, parser.KindVarDecl, parser.KindMacroDefinition:
			e.enqueue(c)
		}
		return true
	})

	for len(e.queue) > 0 {
		c := e.queue[0]
		e.queue = e.queue[1:]
		e.visit(c)
	}

	return e.res
}

func (e *explorer) enqueue(c parser.Cursor) {
	id := c.ID()
	if id == "" || e.visited[id] {
		return
	}
	e.visited[id] = true
	e.queue = append(e.queue, c)
}

func (e *explorer) visit(c parser.Cursor) {
	e.res.IsSystem[c.ID()] = c.IsInSystemHeader()

	switch c.Kind() {
	case parser.KindFunctionDecl:
		e.visitFunction(c)
	case parser.KindStructDecl, parser.KindUnionDecl:
		e.visitRecord(c, "")
	case parser.KindEnumDecl:
		e.visitEnum(c)
	case parser.KindTypedefDecl:
		e.visitTypedef(c)
	case parser.KindVarDecl:
		e.res.Names[c.ID()] = c.Spelling()
		e.res.Variables = append(e.res.Variables, c)
		e.enqueueType(c.Type())
	case parser.KindMacroDefinition:
		e.res.Names[c.ID()] = c.Spelling()
		e.res.Macros = append(e.res.Macros, c)
	default:
		e.collector.Add(diag.Diagnostic{
			Severity: diag.Warning,
			Kind:     diag.UnknownCursorKind,
			Name:     c.Spelling(),
			Location: toDiagLocation(c.Location()),
			Message:  "unrecognized cursor kind " + c.Kind().String() + "; skipped",
		})
	}
}

func (e *explorer) visitFunction(c parser.Cursor) {
	name := c.Spelling()
	e.res.Names[c.ID()] = name
	e.res.Functions = append(e.res.Functions, c)

	var params []parser.Cursor
	c.VisitChildren(func(child parser.Cursor) bool {
		if child.Kind() == parser.KindParmDecl {
			params = append(params, child)
			e.enqueueType(child.Type())
		}
		return true
	})
	e.res.FunctionParameters[c.ID()] = params
	e.enqueueType(c.Type())
}

// visitRecord handles a top-level record reached through the BFS queue:
// it names and collects the record's own fields (recursing synchronously
// into any anonymous nested records) and then dedupes/appends it to the
// Records/OpaqueTypes top-level lists. Nested anonymous records are named
// and indexed in RecordFields but never themselves appended to those
// top-level lists — Mapper-C reconstructs CAS's NestedRecords by walking
// RecordFields recursively, not by reading the top-level lists.
func (e *explorer) visitRecord(c parser.Cursor, fieldNameHint string) {
	name, hasFields := e.nameAndCollectFields(c, fieldNameHint)

	_, seenBefore := e.recordByName[name]
	wasOpaque := e.opaqueByName[name]

	if seenBefore && !hasFields {
		return // a later forward declaration never overrides what's on file
	}

	if seenBefore && wasOpaque && hasFields {
		// The definition arrived after a forward declaration: promote in
		// place rather than double-surfacing the name (§4.1
		// "Deduplication" / §3.1 "never both").
		e.res.OpaqueTypes = removeCursor(e.res.OpaqueTypes, name, e.res.Names)
	}

	e.opaqueByName[name] = !hasFields
	e.recordByName[name] = c

	if hasFields {
		e.res.Records = append(e.res.Records, c)
	} else if !seenBefore {
		e.res.OpaqueTypes = append(e.res.OpaqueTypes, c)
	}
}

// nameAndCollectFields assigns c's name (synthesizing one if anonymous,
// using fieldNameHint) and populates res.RecordFields[c.ID()], recursing
// synchronously into any anonymous nested records reached through a
// field so their name carries the enclosing field context (§9
// "Anonymous-record naming"). It does not touch the top-level
// Records/OpaqueTypes lists — the caller decides whether c itself
// belongs there.
func (e *explorer) nameAndCollectFields(c parser.Cursor, fieldNameHint string) (name string, hasFields bool) {
	name = stripRecordKeyword(c.Spelling())
	if name == "" {
		name = syntheticRecordName(c, fieldNameHint)
		e.collector.Add(diag.Diagnostic{
			Severity: diag.Info,
			Kind:     diag.AnonymousNamed,
			Name:     name,
			Location: toDiagLocation(c.Location()),
			Message:  "synthesized name for anonymous record",
		})
	}
	e.res.Names[c.ID()] = name

	var fields []parser.Cursor
	c.VisitChildren(func(child parser.Cursor) bool {
		if child.Kind() != parser.KindFieldDecl {
			return true
		}
		hasFields = true
		fields = append(fields, child)
		ft := child.Type()

		if ft.Kind() == parser.TypeKindFunctionPointer || (ft.PointeeType() != nil && ft.PointeeType().Kind() == parser.TypeKindFunctionPointer) {
			e.nameFunctionPointerField(child)
			return true
		}

		// A field whose type is an anonymous nested record must be named
		// from THIS field before it is ever enqueued generically, or the
		// field-name context is lost (§9 "capture anonymity at Explorer
		// time by recording (parent_cursor, field_name)").
		if decl := ft.Declaration(); decl != nil &&
			(decl.Kind() == parser.KindStructDecl || decl.Kind() == parser.KindUnionDecl) &&
			stripRecordKeyword(decl.Spelling()) == "" && !e.visited[decl.ID()] {
			e.visited[decl.ID()] = true
			e.nameAndCollectFields(decl, child.Spelling())
			return true
		}

		e.enqueueType(ft)
		return true
	})
	e.res.RecordFields[c.ID()] = fields
	return name, hasFields
}

// removeCursor drops the first cursor named name from cs, consulting names
// to resolve each cursor's synthesized/resolved name.
func removeCursor(cs []parser.Cursor, name string, names map[string]string) []parser.Cursor {
	out := cs[:0]
	removed := false
	for _, c := range cs {
		if !removed && names[c.ID()] == name {
			removed = true
			continue
		}
		out = append(out, c)
	}
	return out
}

func (e *explorer) nameFunctionPointerField(field parser.Cursor) {
	name := "FnPtr_" + field.Spelling()
	e.res.Names[field.ID()] = name
	e.res.FunctionPointers = append(e.res.FunctionPointers, field)
}

func (e *explorer) visitEnum(c parser.Cursor) {
	name := stripRecordKeyword(c.Spelling())
	if name == "" {
		name = syntheticRecordName(c, "")
		e.collector.Add(diag.Diagnostic{
			Severity: diag.Info,
			Kind:     diag.AnonymousNamed,
			Name:     name,
			Location: toDiagLocation(c.Location()),
			Message:  "synthesized name for anonymous enum",
		})
	}
	e.res.Names[c.ID()] = name
	e.res.Enums = append(e.res.Enums, c)

	var values []parser.Cursor
	c.VisitChildren(func(child parser.Cursor) bool {
		if child.Kind() == parser.KindEnumConstantDecl {
			values = append(values, child)
		}
		return true
	})
	e.res.EnumValues[c.ID()] = values
}

func (e *explorer) visitTypedef(c parser.Cursor) {
	underlying := c.Type()
	name := c.Spelling()
	e.res.Names[c.ID()] = name
	e.res.Typedefs = append(e.res.Typedefs, c)

	// "Typedefs to anonymous records promote the typedef name to the
	// record's name" (§4.1).
	decl := underlying.Declaration()
	if decl != nil && (decl.Kind() == parser.KindStructDecl || decl.Kind() == parser.KindUnionDecl) {
		if stripRecordKeyword(decl.Spelling()) == "" {
			e.res.Names[decl.ID()] = name
		}
	}
	e.enqueueType(underlying)
}

// enqueueType enqueues the declaration cursors reachable from t: its own
// declaration (for records/enums/typedefs), its pointee, and its element
// type, recursing through the type graph without recursing into
// already-visited cursors.
func (e *explorer) enqueueType(t parser.Type) {
	if t == nil {
		return
	}
	if decl := t.Declaration(); decl != nil {
		e.enqueue(decl)
	}
	if pt := t.PointeeType(); pt != nil {
		e.enqueueType(pt)
	}
	if et := t.ElementType(); et != nil {
		e.enqueueType(et)
	}
}

func stripRecordKeyword(spelling string) string {
	for _, prefix := range []string{"struct ", "union ", "enum "} {
		if strings.HasPrefix(spelling, prefix) {
			return strings.TrimPrefix(spelling, prefix)
		}
	}
	return spelling
}

// syntheticRecordName synthesizes Anonymous_<Struct|Union>_<field> (§3.1).
// fieldNameHint may be empty when the anonymous record is not reached
// through a named field (e.g. an anonymous top-level struct); in that
// case the literal "anon" stands in for the field name.
func syntheticRecordName(c parser.Cursor, fieldNameHint string) string {
	kind := "Struct"
	if c.Kind() == parser.KindUnionDecl {
		kind = "Union"
	}
	if fieldNameHint == "" {
		fieldNameHint = "anon"
	}
	return "Anonymous_" + kind + "_" + fieldNameHint
}

func toDiagLocation(l parser.Location) diag.Location {
	return diag.Location{File: l.File, Line: l.Line, Column: l.Column}
}
