package cas

import "encoding/json"

// wireSurface is the stable JSON schema of §6 ("Output... serializable to a
// stable JSON schema (entity kinds as tags, ordered arrays for children)").
// Surface's internal maps stay unexported; this is the only shape that ever
// crosses the JSON boundary, which is what makes §8's round-trip property
// ("Serialising CAS to JSON and back yields the same in-memory tree")
// checkable without exposing mutable internals elsewhere.
type wireSurface struct {
	Roots            []Ref              `json:"roots"`
	Functions        []*Function        `json:"functions"`
	FunctionPointers []*FunctionPointer `json:"function_pointers"`
	Records          []*Record          `json:"records"`
	OpaqueTypes      []*OpaqueType      `json:"opaque_types"`
	Typedefs         []*Typedef         `json:"typedefs"`
	Enums            []*Enum            `json:"enums"`
	Variables        []*Variable        `json:"variables"`
	Macros           []*MacroObject     `json:"macros"`
	Types            []*Type            `json:"types"`
}

// MarshalJSON implements the §6 wire schema.
func (s *Surface) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireSurface{
		Roots:            s.Roots,
		Functions:        s.Functions(),
		FunctionPointers: s.FunctionPointers(),
		Records:          s.Records(),
		OpaqueTypes:      s.OpaqueTypes(),
		Typedefs:         s.Typedefs(),
		Enums:            s.Enums(),
		Variables:        s.Variables(),
		Macros:           s.Macros(),
		Types:            s.Types(),
	})
}

// UnmarshalJSON rebuilds a Surface from the §6 wire schema, preserving the
// array order as insertion order so a marshal/unmarshal cycle is a no-op
// (§8 "Round-trip").
func (s *Surface) UnmarshalJSON(data []byte) error {
	var w wireSurface
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	b := NewBuilder()
	for _, f := range w.Functions {
		b.AddFunction(f)
	}
	for _, fp := range w.FunctionPointers {
		b.AddFunctionPointer(fp)
	}
	for _, r := range w.Records {
		b.AddRecord(r)
	}
	for _, o := range w.OpaqueTypes {
		b.AddOpaqueType(o)
	}
	for _, t := range w.Typedefs {
		b.AddTypedef(t)
	}
	for _, e := range w.Enums {
		b.AddEnum(e)
	}
	for _, v := range w.Variables {
		b.AddVariable(v)
	}
	for _, m := range w.Macros {
		b.AddMacro(m)
	}
	for _, t := range w.Types {
		b.AddType(t)
	}
	b.s.Roots = append(b.s.Roots, w.Roots...)

	*s = *b.Freeze()
	return nil
}
