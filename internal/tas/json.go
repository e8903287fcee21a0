package tas

import "encoding/json"

// wireSurface is TAS's stable JSON schema, mirroring cas.wireSurface
// (§6, §8 "the same [round-trip] holds for TAS").
type wireSurface struct {
	Roots            []Ref              `json:"roots"`
	Functions        []*Function        `json:"functions"`
	FunctionPointers []*FunctionPointer `json:"function_pointers"`
	Records          []*Record          `json:"records"`
	OpaqueTypes      []*OpaqueType      `json:"opaque_types"`
	Enums            []*Enum            `json:"enums"`
	Variables        []*Variable        `json:"variables"`
	Macros           []*MacroObject     `json:"macros"`
	Types            []*Type            `json:"types"`
}

func (s *Surface) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireSurface{
		Roots:            s.Roots,
		Functions:        s.Functions(),
		FunctionPointers: s.FunctionPointers(),
		Records:          s.Records(),
		OpaqueTypes:      s.OpaqueTypes(),
		Enums:            s.Enums(),
		Variables:        s.Variables(),
		Macros:           s.Macros(),
		Types:            s.Types(),
	})
}

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
