// Package pipeline drives the four core stages end to end (spec §5): a
// single run is Explorer → Mapper-C → Mapper-Target, strictly sequential
// and single-threaded per run ("no suspension points inside the core").
// Concurrency lives only in the multi-target fan-out this package also
// implements, one goroutine per target triple, grounded on the errgroup
// fan-out idiom shared by janpfeifer-go-highway and hargabyte-cortex.
package pipeline

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ccsurface/c2x/internal/cas"
	"github.com/ccsurface/c2x/internal/config"
	"github.com/ccsurface/c2x/internal/diag"
	"github.com/ccsurface/c2x/internal/explorer"
	"github.com/ccsurface/c2x/internal/mapc"
	"github.com/ccsurface/c2x/internal/mapt"
	"github.com/ccsurface/c2x/internal/parser"
	"github.com/ccsurface/c2x/internal/tas"
)

// Result is one single-target pipeline run's output.
type Result struct {
	Triple     config.Triple
	CAS        *cas.Surface
	TAS        *tas.Surface
	Collector  *diag.Collector
}

// Run executes Explorer → Mapper-C → Mapper-Target once over root, under
// cfg. The returned Collector carries every diagnostic from every stage in
// production order (all three stages add to the one collector).
func Run(root parser.Cursor, cfg *config.Config) (*Result, error) {
	collector := diag.NewCollector(nil)

	explored := explorer.Explore(root, collector)

	casSurface := mapc.Map(explored, collector)
	if err := casSurface.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: CAS validation failed: %w", err)
	}

	mtCfg := mapt.Config{
		IgnoredNames: cfg.IgnoredNameSet(),
	}
	for from, to := range cfg.AliasMap() {
		mtCfg.Aliases = append(mtCfg.Aliases, mapt.Alias{From: from, To: to})
	}
	tasSurface := mapt.Map(casSurface, mtCfg, collector)

	return &Result{CAS: casSurface, TAS: tasSurface, Collector: collector}, nil
}

// Opener produces a parser.Cursor translation-unit root for one target
// triple (e.g. re-parsing the header with the oracle configured for that
// triple's ABI — §4.2 "sizes, alignments... come from the parser's layout
// oracle", which is necessarily per-triple).
type Opener func(triple config.Triple) (parser.Cursor, error)

// RunMultiTarget fans out Run across triples, one goroutine per triple
// (§5 "fans out over targets by running independent instances of the full
// pipeline"), then merges the resulting TAS surfaces node-by-node
// (SPEC_FULL.md "Multi-platform merge").
func RunMultiTarget(open Opener, triples []config.Triple, cfg *config.Config) ([]*Result, *MergedSurface, error) {
	results := make([]*Result, len(triples))

	g := new(errgroup.Group)
	for i, triple := range triples {
		i, triple := i, triple
		g.Go(func() error {
			root, err := open(triple)
			if err != nil {
				return fmt.Errorf("opening parser for %s: %w", triple, err)
			}
			res, err := Run(root, cfg)
			if err != nil {
				return fmt.Errorf("running pipeline for %s: %w", triple, err)
			}
			res.Triple = triple
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	merged := mergePlatforms(results, cfg.OnPlatformDivergence)
	return results, merged, nil
}
