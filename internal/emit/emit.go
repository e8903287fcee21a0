// Package emit defines the Emitter contract (spec §4.4): a TAS goes in,
// one text artifact comes out. The contract is deliberately thin — the
// core never depends on a concrete target language, only on this
// interface — so additional host languages can be added without
// touching the pipeline stages upstream of it.
package emit

import "github.com/ccsurface/c2x/internal/tas"

// Options carries the emitter-consumed configuration fields of §6
// (`class_name`, `library_name`, `emit_system_types`) that don't belong to
// any pipeline stage before this one.
type Options struct {
	ClassName       string
	LibraryName     string
	EmitSystemTypes bool
}

// Emitter produces one text artifact from surface (§4.4: "consumes TAS
// and produces one text artifact per input header").
type Emitter interface {
	Emit(surface *tas.Surface, opts Options) ([]byte, error)
}
