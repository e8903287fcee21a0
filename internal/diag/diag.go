// Package diag implements the structured diagnostic records of the core
// pipeline (spec §7): every stage reports problems as typed records with a
// severity and a kind, never by returning a bare error and losing context.
package diag

import (
	"fmt"

	"go.uber.org/zap"
)

// Severity is one of Info, Warning or Error, per §7.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "Info"
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// Kind enumerates the diagnostic kinds named in §7.
type Kind string

const (
	UnsupportedType          Kind = "UnsupportedType"
	VariadicFunctionDropped  Kind = "VariadicFunctionDropped"
	MacroObjectNotTranspiled Kind = "MacroObjectNotTranspiled"
	MergePlatformNodes       Kind = "MergePlatformNodes"
	AnonymousNamed           Kind = "AnonymousNamed"
	AliasShadowsBuiltin      Kind = "AliasShadowsBuiltin"
	NotImplemented           Kind = "NotImplemented"
	UnresolvedType           Kind = "UnresolvedType"
	UnknownCursorKind        Kind = "UnknownCursorKind"
)

// Location mirrors the (file, line, column) triple every diagnostic must
// carry (§7 "User-visible behavior").
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Diagnostic is one structured record (§7).
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Name     string
	Location Location
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s %q at %s: %s", d.Severity, d.Kind, d.Name, d.Location, d.Message)
}

// Collector accumulates diagnostics in production order (§7 "order they
// were produced; order is stable across runs given a stable input") and
// logs each one as it is added, through the *zap.Logger given to
// NewCollector; the core only ever reaches it through this narrow seam.
type Collector struct {
	items  []Diagnostic
	logger *zap.SugaredLogger
}

// NewCollector creates a Collector that logs through l. A nil logger is
// replaced with zap's no-op logger so core code never needs a nil check.
func NewCollector(l *zap.Logger) *Collector {
	if l == nil {
		l = zap.NewNop()
	}
	return &Collector{logger: l.Sugar()}
}

// Add records d in production order and logs it at a level derived from
// its severity.
func (c *Collector) Add(d Diagnostic) {
	c.items = append(c.items, d)

	fields := []interface{}{
		"kind", string(d.Kind),
		"name", d.Name,
		"location", d.Location.String(),
	}
	switch d.Severity {
	case Error:
		c.logger.Errorw(d.Message, fields...)
	case Warning:
		c.logger.Warnw(d.Message, fields...)
	default:
		c.logger.Debugw(d.Message, fields...)
	}
}

// Items returns all diagnostics recorded so far, in production order.
func (c *Collector) Items() []Diagnostic {
	return c.items
}

// HasErrors reports whether any Error-severity diagnostic was recorded.
func (c *Collector) HasErrors() bool {
	for _, d := range c.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Merge appends other's items to c in order, preserving production order
// across stage boundaries (Explorer's collector feeding into Mapper-C's,
// and so on).
func (c *Collector) Merge(other *Collector) {
	if other == nil {
		return
	}
	c.items = append(c.items, other.items...)
}
