// Package rtest generates random but internally-consistent cas.Surface
// fixtures for the property tests of spec §8 ("round-trip", "two runs on
// the same input produce byte-identical TAS"). The generator — a single
// Surface function fed one *rand.Rand and a record and function count —
// is adapted from the teacher's
// gen/utils.go and std/golang/gen.go random-value idiom, generalized from
// "random Go value of a fixed type" to "random CAS node of a fixed kind".
package rtest

import (
	"fmt"
	"math/rand"

	"github.com/ccsurface/c2x/internal/cas"
)

// MaxFields bounds how many fields a generated record gets, mirroring the
// teacher's bstd.MaxDepth-style brevity cap for generated fixtures.
const MaxFields = 4

var builtinNames = []string{"i32", "u32", "i64", "f64", "CBool", "u8"}

func randomIdent(r *rand.Rand, prefix string) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, 6)
	for i := range b {
		b[i] = letters[r.Intn(len(letters))]
	}
	return fmt.Sprintf("%s_%s", prefix, string(b))
}

// Surface builds a random cas.Surface with recordCount records (each with
// up to MaxFields builtin-typed fields) and funcCount top-level functions,
// all fields/parameters resolving to the builtin CTypes the surface
// itself registers — so the result passes cas.Surface.Validate() by
// construction, which is what makes it useful as a round-trip fixture.
func Surface(r *rand.Rand, recordCount, funcCount int) *cas.Surface {
	b := cas.NewBuilder()

	for _, name := range builtinNames {
		b.AddType(&cas.Type{Name: name, OriginalName: name, SizeBytes: 4, AlignBytes: 4, Kind: cas.TypeBuiltin, IsSystem: true})
	}

	for i := 0; i < recordCount; i++ {
		name := randomIdent(r, "Record")
		fieldN := 1 + r.Intn(MaxFields)
		fields := make([]cas.RecordField, fieldN)
		var offset int64
		for j := 0; j < fieldN; j++ {
			fields[j] = cas.RecordField{
				Name:       randomIdent(r, "f"),
				Type:       builtinNames[r.Intn(len(builtinNames))],
				OffsetBits: offset,
			}
			offset += 32
		}
		rec := &cas.Record{Name: name, Fields: fields, TypeRef: name}
		if b.AddRecord(rec) {
			b.AddType(&cas.Type{Name: name, OriginalName: name, SizeBytes: offset / 8, AlignBytes: 4, Kind: cas.TypeRecord})
			b.AddRoot(cas.Ref{Kind: cas.NodeRecord, Name: name})
		}
	}

	for i := 0; i < funcCount; i++ {
		name := randomIdent(r, "fn")
		paramN := r.Intn(3)
		params := make([]cas.FunctionParameter, paramN)
		seen := make(map[string]bool, paramN)
		for j := 0; j < paramN; j++ {
			pname := randomIdent(r, "p")
			for seen[pname] {
				pname = randomIdent(r, "p")
			}
			seen[pname] = true
			params[j] = cas.FunctionParameter{Name: pname, Type: builtinNames[r.Intn(len(builtinNames))]}
		}
		fn := &cas.Function{
			Name:              name,
			ReturnType:        builtinNames[r.Intn(len(builtinNames))],
			CallingConvention: "C",
			Parameters:        params,
		}
		if b.AddFunction(fn) {
			b.AddRoot(cas.Ref{Kind: cas.NodeFunction, Name: name})
		}
	}

	return b.Freeze()
}
