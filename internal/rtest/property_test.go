package rtest

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/ccsurface/c2x/internal/cas"
	"github.com/ccsurface/c2x/internal/diag"
	"github.com/ccsurface/c2x/internal/mapt"
)

// TestSurface_RoundTripsThroughJSON is §8's CAS round-trip property:
// "Serialising CAS to JSON and back yields the same in-memory tree."
func TestSurface_RoundTripsThroughJSON(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		surface := Surface(r, 3, 3)
		require.NoError(t, surface.Validate())

		data, err := json.Marshal(surface)
		require.NoError(t, err)

		var roundTripped cas.Surface
		require.NoError(t, json.Unmarshal(data, &roundTripped))

		if diff := cmp.Diff(surface, &roundTripped, cmp.AllowUnexported(cas.Surface{})); diff != "" {
			t.Fatalf("round trip changed the surface (-want +got):\n%s", diff)
		}
	}
}

// TestSurface_DeterministicOrderAcrossRuns is §8's "two runs on the same
// input produce byte-identical TAS": mapping the same CAS surface through
// Mapper-Target twice, independently, must yield identical JSON.
func TestSurface_DeterministicOrderAcrossRuns(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	surface := Surface(r, 4, 4)
	require.NoError(t, surface.Validate())

	first := mapt.Map(surface, mapt.Config{}, diag.NewCollector(nil))
	second := mapt.Map(surface, mapt.Config{}, diag.NewCollector(nil))

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)

	require.Equal(t, string(firstJSON), string(secondJSON))
}

// TestSurface_MapperTargetIdempotent is §8's idempotence property: running
// Mapper-Target a second time, over the same CAS input, must reach the same
// fixed point — no node set should grow or shrink on the second pass.
func TestSurface_MapperTargetIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	surface := Surface(r, 5, 5)
	require.NoError(t, surface.Validate())

	out1 := mapt.Map(surface, mapt.Config{}, diag.NewCollector(nil))
	out2 := mapt.Map(surface, mapt.Config{}, diag.NewCollector(nil))

	require.Equal(t, len(out1.Functions()), len(out2.Functions()))
	require.Equal(t, len(out1.Records()), len(out2.Records()))
}
