package pipeline

import (
	"github.com/google/go-cmp/cmp"

	"github.com/ccsurface/c2x/internal/config"
	"github.com/ccsurface/c2x/internal/diag"
	"github.com/ccsurface/c2x/internal/tas"
)

// MergedSurface is the outcome of the platform-merge post-pass
// (SPEC_FULL.md "Multi-platform merge"): nodes that agree bit-exactly
// across every target collapse to one; under Error a divergent node is
// dropped with a MergePlatformNodes diagnostic. Under PerPlatform only
// divergent functions and records keep one variant per platform (in
// PerPlatformFunctions/PerPlatformRecords); divergent function pointers,
// opaque types, enums, variables and macros are left out of the merged
// surface with no diagnostic.
type MergedSurface struct {
	Functions        map[string]*tas.Function
	FunctionPointers map[string]*tas.FunctionPointer
	Records          map[string]*tas.Record
	OpaqueTypes      map[string]*tas.OpaqueType
	Enums            map[string]*tas.Enum
	Variables        map[string]*tas.Variable
	Macros           map[string]*tas.MacroObject

	// PerPlatform holds, for every divergent name, one variant keyed by
	// that result's target triple string — only populated under
	// config.PerPlatform.
	PerPlatformFunctions map[string]map[string]*tas.Function
	PerPlatformRecords   map[string]map[string]*tas.Record
}

func mergePlatforms(results []*Result, mode config.OnPlatformDivergence) *MergedSurface {
	m := &MergedSurface{
		Functions:            make(map[string]*tas.Function),
		FunctionPointers:     make(map[string]*tas.FunctionPointer),
		Records:              make(map[string]*tas.Record),
		OpaqueTypes:          make(map[string]*tas.OpaqueType),
		Enums:                make(map[string]*tas.Enum),
		Variables:            make(map[string]*tas.Variable),
		Macros:               make(map[string]*tas.MacroObject),
		PerPlatformFunctions: make(map[string]map[string]*tas.Function),
		PerPlatformRecords:   make(map[string]map[string]*tas.Record),
	}
	if len(results) == 0 {
		return m
	}
	collector := results[0].Collector

	common, perPlatform := mergeKind(results, mode, collector,
		func(s *tas.Surface) []*tas.Function { return s.Functions() },
		func(f *tas.Function) string { return f.Name },
	)
	m.Functions = common
	m.PerPlatformFunctions = perPlatform

	fps, _ := mergeKind(results, mode, collector,
		func(s *tas.Surface) []*tas.FunctionPointer { return s.FunctionPointers() },
		func(f *tas.FunctionPointer) string { return f.Name },
	)
	m.FunctionPointers = fps

	recs, perPlatformRecs := mergeKind(results, mode, collector,
		func(s *tas.Surface) []*tas.Record { return s.Records() },
		func(r *tas.Record) string { return r.Name },
	)
	m.Records = recs
	m.PerPlatformRecords = perPlatformRecs

	opq, _ := mergeKind(results, mode, collector,
		func(s *tas.Surface) []*tas.OpaqueType { return s.OpaqueTypes() },
		func(o *tas.OpaqueType) string { return o.Name },
	)
	m.OpaqueTypes = opq

	enums, _ := mergeKind(results, mode, collector,
		func(s *tas.Surface) []*tas.Enum { return s.Enums() },
		func(e *tas.Enum) string { return e.Name },
	)
	m.Enums = enums

	vars, _ := mergeKind(results, mode, collector,
		func(s *tas.Surface) []*tas.Variable { return s.Variables() },
		func(v *tas.Variable) string { return v.Name },
	)
	m.Variables = vars

	macros, _ := mergeKind(results, mode, collector,
		func(s *tas.Surface) []*tas.MacroObject { return s.Macros() },
		func(mo *tas.MacroObject) string { return mo.Name },
	)
	m.Macros = macros

	return m
}

// mergeKind walks every platform's TAS for one node kind, grouping by
// name. A name whose value is bit-identical (cmp.Equal) across every
// platform that has it collapses into common; otherwise it either
// surfaces once per platform in perPlatform (mode == PerPlatform) or is
// dropped with a MergePlatformNodes diagnostic (mode == Error).
func mergeKind[T any](
	results []*Result,
	mode config.OnPlatformDivergence,
	collector *diag.Collector,
	get func(*tas.Surface) []T,
	name func(T) string,
) (common map[string]T, perPlatform map[string]map[string]T) {
	common = make(map[string]T)
	perPlatform = make(map[string]map[string]T)
	seen := make(map[string]bool)

	for _, res := range results {
		if res == nil || res.TAS == nil {
			continue
		}
		for _, item := range get(res.TAS) {
			n := name(item)
			if seen[n] {
				continue
			}
			seen[n] = true

			variants := make(map[string]T)
			for _, other := range results {
				if other == nil || other.TAS == nil {
					continue
				}
				for _, candidate := range get(other.TAS) {
					if name(candidate) == n {
						variants[other.Triple.String()] = candidate
						break
					}
				}
			}

			if allAgree(variants) {
				common[n] = item
				continue
			}

			if mode == config.ErrorOnDivergence {
				collector.Add(diag.Diagnostic{
					Severity: diag.Error,
					Kind:     diag.MergePlatformNodes,
					Name:     n,
					Message:  "node diverges across target platforms",
				})
				continue
			}
			perPlatform[n] = variants
		}
	}
	return common, perPlatform
}

func allAgree[T any](variants map[string]T) bool {
	first := true
	var ref T
	for _, v := range variants {
		if first {
			ref = v
			first = false
			continue
		}
		if !cmp.Equal(ref, v) {
			return false
		}
	}
	return true
}
