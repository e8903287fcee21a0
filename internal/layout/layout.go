// Package layout computes struct/union field offsets, padding, and total
// size from the parser oracle's per-type SizeOf/AlignOf answers (spec §4.2
// "Layout computation"). It is the one place arithmetic on alignment and
// offsets lives; Mapper-C uses it for native layout.
package layout

import (
	"errors"

	"golang.org/x/exp/constraints"
)

var ErrZeroAlignment = errors.New("layout: alignment must be positive")

// Field is the minimal shape ComputeStruct/ComputeUnion need from a record
// member: its name and the size/alignment of its resolved type, in bytes.
// The computed offsets and padding in Placed are in bits, matching
// CAS/TAS's RecordField.OffsetBits/PaddingBits.
type Field struct {
	Name       string
	SizeBytes  int64
	AlignBytes int64
}

// Placed is a Field with its computed bit offset and the padding bits
// inserted before it to satisfy its alignment.
type Placed struct {
	Field
	OffsetBits  int64
	PaddingBits int64
}

// Result is the outcome of laying out a sequence of fields as a struct:
// the placed fields in declaration order, the overall size (rounded up to
// the struct's own alignment, the C "tail padding" rule), and that
// alignment.
type Result struct {
	Fields     []Placed
	SizeBytes  int64
	AlignBytes int64
}

// ComputeStruct lays out fields sequentially, C-struct style: each field
// starts at the next offset satisfying its own alignment, and the overall
// size is rounded up to the struct's alignment (the max of its fields').
func ComputeStruct(fields []Field) (Result, error) {
	var offsetBytes int64
	var structAlign int64 = 1
	placed := make([]Placed, 0, len(fields))

	for _, f := range fields {
		if f.AlignBytes <= 0 {
			return Result{}, ErrZeroAlignment
		}
		aligned := RoundUp(offsetBytes, f.AlignBytes)
		padding := (aligned - offsetBytes) * 8
		placed = append(placed, Placed{
			Field:       f,
			OffsetBits:  aligned * 8,
			PaddingBits: padding,
		})
		offsetBytes = aligned + f.SizeBytes
		if f.AlignBytes > structAlign {
			structAlign = f.AlignBytes
		}
	}

	total := RoundUp(offsetBytes, structAlign)
	return Result{Fields: placed, SizeBytes: total, AlignBytes: structAlign}, nil
}

// ComputeUnion lays out fields as a C union: every field starts at offset
// zero, and the overall size is the widest member rounded up to the
// union's alignment (the max of its fields').
func ComputeUnion(fields []Field) (Result, error) {
	var size int64
	var align int64 = 1
	placed := make([]Placed, 0, len(fields))

	for _, f := range fields {
		if f.AlignBytes <= 0 {
			return Result{}, ErrZeroAlignment
		}
		placed = append(placed, Placed{Field: f, OffsetBits: 0, PaddingBits: 0})
		if f.SizeBytes > size {
			size = f.SizeBytes
		}
		if f.AlignBytes > align {
			align = f.AlignBytes
		}
	}

	return Result{Fields: placed, SizeBytes: RoundUp(size, align), AlignBytes: align}, nil
}

// Integer is any type RoundUp may be instantiated over.
type Integer interface {
	constraints.Integer
}

// RoundUp rounds n up to the nearest multiple of align. align must be
// positive; callers that can't guarantee this should go through
// ComputeStruct/ComputeUnion, which validate it first.
func RoundUp[T Integer](n, align T) T {
	if align <= 0 {
		return n
	}
	rem := n % align
	if rem == 0 {
		return n
	}
	return n + (align - rem)
}

// ArrayStrideBytes is the per-element stride of a C array: the element
// type's size rounded up to its own alignment (elements of a well-formed C
// array are always aligned to their type's alignment by construction).
// No pipeline stage calls it.
func ArrayStrideBytes(elemSizeBytes, elemAlignBytes int64) int64 {
	return RoundUp(elemSizeBytes, elemAlignBytes)
}
