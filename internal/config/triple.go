package config

import "fmt"

// Triple is a parsed `target_triple` (§6), e.g. "x86_64-unknown-linux-gnu".
// Environment is empty for triples that only carry arch-vendor-os.
type Triple struct {
	Arch        string
	Vendor      string
	OS          string
	Environment string
}

// ParseTriple scans s hyphen-by-hyphen rather than via a regular
// expression, the same hand-scanned style as the teacher's C/JS header
// parsers (cmd/generator/c/parser.go's field-at-a-time text/scanner loop).
func ParseTriple(s string) (Triple, error) {
	var fields []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '-' {
			fields = append(fields, s[start:i])
			start = i + 1
		}
	}

	switch len(fields) {
	case 3:
		return Triple{Arch: fields[0], Vendor: fields[1], OS: fields[2]}, nil
	case 4:
		return Triple{Arch: fields[0], Vendor: fields[1], OS: fields[2], Environment: fields[3]}, nil
	default:
		return Triple{}, fmt.Errorf("config: target_triple %q must have 3 or 4 hyphen-separated fields, got %d", s, len(fields))
	}
}

func (t Triple) String() string {
	if t.Environment == "" {
		return fmt.Sprintf("%s-%s-%s", t.Arch, t.Vendor, t.OS)
	}
	return fmt.Sprintf("%s-%s-%s-%s", t.Arch, t.Vendor, t.OS, t.Environment)
}
