// Package ccoracle is a concrete parser.Cursor/parser.Type oracle backed by
// modernc.org/cc/v4, the pure-Go C11 front end. §6 only fixes the cursor
// contract and names libclang as "the canonical implementation... any
// conforming oracle is acceptable" — this package is that second,
// cgo-free oracle, grounded on the same cc/v4 grammar-walk used by
// fardream-gen-mkl-wrapper's retrieveFuncDef/retrieveType/retrieveParams
// (walking ExternalDeclaration -> Declaration -> DeclarationSpecifiers /
// InitDeclaratorList / Declarator / DirectDeclarator / ParameterList by
// hand, the same way that repo turns an MKL header into Go bindings).
//
// Scope note: this reference implementation only walks the syntax grammar,
// the same subset fardream-gen-mkl-wrapper's generator walks, and does not
// use cc/v4's semantic Type layer or layout engine. It surfaces only
// top-level function declarations; struct, union, enum, typedef, variable
// and macro declarations are not surfaced. Parameter and return types are
// builtins or pointers to builtins, sized from a fixed LP64 width table;
// a type spelling the table does not know (such as "struct Widget") is
// reported as a 4-byte int-kinded builtin under that spelling.
package ccoracle

import (
	"fmt"
	"os"

	"modernc.org/cc/v4"

	"github.com/ccsurface/c2x/internal/parser"
)

// Open parses headerPath with cc/v4 using includePaths for #include
// resolution and returns the translation unit's root Cursor.
func Open(headerPath string, includePaths []string) (parser.Cursor, error) {
	cfg, err := cc.NewConfig("", "")
	if err != nil {
		return nil, fmt.Errorf("ccoracle: configuring cc/v4: %w", err)
	}
	cfg.IncludePaths = append(cfg.IncludePaths, includePaths...)

	if _, err := os.Stat(headerPath); err != nil {
		return nil, fmt.Errorf("ccoracle: %w", err)
	}

	ast, err := cc.Translate(cfg, []cc.Source{
		{Name: "<predefined>", Value: cfg.Predefined},
		{Name: "<builtin>", Value: cc.Builtin},
		{Name: headerPath},
	})
	if err != nil {
		return nil, fmt.Errorf("ccoracle: translating %s: %w", headerPath, err)
	}

	return &tuCursor{ast: ast}, nil
}

// tuCursor wraps the cc/v4 translation unit as the KindTranslationUnit root.
type tuCursor struct {
	ast *cc.AST
}

func (c *tuCursor) Kind() parser.Kind               { return parser.KindTranslationUnit }
func (c *tuCursor) Spelling() string                { return "" }
func (c *tuCursor) Location() parser.Location       { return parser.Location{} }
func (c *tuCursor) IsInSystemHeader() bool          { return false }
func (c *tuCursor) Type() parser.Type               { return nil }
func (c *tuCursor) EnumConstantValue() int64        { return 0 }
func (c *tuCursor) MacroTokens() []string           { return nil }
func (c *tuCursor) ID() string                      { return "<translation-unit>" }

// VisitChildren walks the ExternalDeclaration linked list cc/v4 hangs off
// TranslationUnit, exactly the traversal
// fardream-gen-mkl-wrapper's run() does over ccast.TranslationUnit.
func (c *tuCursor) VisitChildren(fn func(parser.Cursor) bool) {
	for tu := c.ast.TranslationUnit; tu != nil; tu = tu.TranslationUnit {
		ed := tu.ExternalDeclaration
		if ed == nil {
			continue
		}
		cur := externalDeclCursor(ed)
		if cur == nil {
			continue
		}
		if !fn(cur) {
			return
		}
	}
}

// externalDeclCursor turns one top-level ExternalDeclaration into a Cursor,
// or nil if it isn't a function declaration — the only external-declaration
// shape this reference oracle resolves (see package doc).
func externalDeclCursor(ed *cc.ExternalDeclaration) parser.Cursor {
	if ed.Declaration == nil {
		return nil
	}
	decl := ed.Declaration
	if decl.Case != cc.DeclarationDecl || decl.InitDeclaratorList == nil {
		return nil
	}
	initDecl := decl.InitDeclaratorList.InitDeclarator
	if initDecl == nil || initDecl.Case != cc.InitDeclaratorDecl {
		return nil
	}
	dd := initDecl.Declarator.DirectDeclarator
	if dd == nil || dd.DirectDeclarator == nil || dd.DirectDeclarator.Case != cc.DirectDeclaratorIdent {
		return nil
	}
	if dd.ParameterTypeList == nil {
		return nil
	}

	name := dd.DirectDeclarator.Token.SrcStr()
	returnTypeName := retrieveType(decl.DeclarationSpecifiers)
	returnType := builtinTypeFor(returnTypeName)
	if initDecl.Declarator.Pointer != nil {
		returnType = &pointerType{pointee: returnType}
	}

	return &funcCursor{
		name:       name,
		returnType: returnType,
		params:     retrieveParams(dd.ParameterTypeList.ParameterList, 0),
	}
}

// retrieveType flattens a DeclarationSpecifiers chain down to its leading
// type-specifier spelling, the same recursive case-walk
// fardream-gen-mkl-wrapper's retrieveType uses.
func retrieveType(r *cc.DeclarationSpecifiers) string {
	if r == nil {
		return "int"
	}
	switch r.Case {
	case cc.DeclarationSpecifiersTypeSpec:
		return r.TypeSpecifier.Token.SrcStr()
	case cc.DeclarationSpecifiersTypeQual:
		return r.TypeQualifier.Token.SrcStr() + " " + retrieveType(r.DeclarationSpecifiers)
	default:
		return retrieveType(r.DeclarationSpecifiers)
	}
}

// retrieveParams walks the ParameterList linked list, naming unnamed
// parameters p0, p1, ... like fardream-gen-mkl-wrapper's retrieveParams.
func retrieveParams(r *cc.ParameterList, i int) []*parmCursor {
	if r == nil || r.ParameterDeclaration == nil {
		return nil
	}
	pd := r.ParameterDeclaration
	typeName := retrieveType(pd.DeclarationSpecifiers)
	name := ""
	pointer := false

	switch pd.Case {
	case cc.ParameterDeclarationAbstract:
		if pd.AbstractDeclarator != nil && pd.AbstractDeclarator.Case == cc.AbstractDeclaratorPtr {
			pointer = true
		}
	case cc.ParameterDeclarationDecl:
		decl := pd.Declarator
		if decl.DirectDeclarator != nil {
			name = decl.DirectDeclarator.Token.SrcStr()
		}
		if decl.Pointer != nil {
			pointer = true
		}
	}
	if name == "" {
		name = fmt.Sprintf("p%d", i)
	}

	t := builtinTypeFor(typeName)
	if pointer {
		t = &pointerType{pointee: t}
	}

	return append([]*parmCursor{{name: name, typ: t}}, retrieveParams(r.ParameterList, i+1)...)
}

// funcCursor is the KindFunctionDecl produced for a resolved top-level
// function declaration.
type funcCursor struct {
	name       string
	returnType parser.Type
	params     []*parmCursor
	location   parser.Location
}

func (c *funcCursor) Kind() parser.Kind         { return parser.KindFunctionDecl }
func (c *funcCursor) Spelling() string          { return c.name }
func (c *funcCursor) Location() parser.Location { return c.location }
func (c *funcCursor) IsInSystemHeader() bool    { return false }
func (c *funcCursor) Type() parser.Type         { return c.returnType }
func (c *funcCursor) EnumConstantValue() int64  { return 0 }
func (c *funcCursor) MacroTokens() []string     { return nil }
func (c *funcCursor) ID() string                { return "function:" + c.name }

func (c *funcCursor) VisitChildren(fn func(parser.Cursor) bool) {
	for _, p := range c.params {
		if !fn(p) {
			return
		}
	}
}

// parmCursor is one KindParmDecl child of a funcCursor.
type parmCursor struct {
	name string
	typ  parser.Type
}

func (c *parmCursor) Kind() parser.Kind         { return parser.KindParmDecl }
func (c *parmCursor) Spelling() string          { return c.name }
func (c *parmCursor) Location() parser.Location { return parser.Location{} }
func (c *parmCursor) IsInSystemHeader() bool    { return false }
func (c *parmCursor) Type() parser.Type         { return c.typ }
func (c *parmCursor) EnumConstantValue() int64  { return 0 }
func (c *parmCursor) MacroTokens() []string     { return nil }
func (c *parmCursor) ID() string                { return "param:" + c.name }
func (c *parmCursor) VisitChildren(func(parser.Cursor) bool) {}
