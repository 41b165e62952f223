package header

import "strconv"

// By is a column indexation descriptor: by name, by name with an explicit
// occurrence among duplicate headers, or by integer position (negative
// meaning counted from the end).
type By interface {
	isBy()
	String() string
}

// ByName resolves to the first column whose header equals Name.
type ByName struct {
	Name string
}

func (ByName) isBy() {}
func (b ByName) String() string {
	return "col(" + strconv.Quote(b.Name) + ")"
}

// ByNameOccurrence resolves to the Occurrence-th (0-based) column whose
// header equals Name — used to disambiguate duplicate header names.
type ByNameOccurrence struct {
	Name       string
	Occurrence int
}

func (ByNameOccurrence) isBy() {}
func (b ByNameOccurrence) String() string {
	return "col(" + strconv.Quote(b.Name) + ", " + strconv.Itoa(b.Occurrence) + ")"
}

// ByPosition resolves to the column at Position, counted from the end when
// negative.
type ByPosition struct {
	Position int
}

func (ByPosition) isBy() {}
func (b ByPosition) String() string {
	return "col(" + strconv.Itoa(b.Position) + ")"
}

// Index maps column references against a fixed header row.
type Index struct {
	names []string
	// byName maps a header name to every column index it appears at, in
	// column order, so ByNameOccurrence can pick the Nth one.
	byName map[string][]int
}

// New builds an Index from an observed header record.
func New(names []string) Index {
	idx := Index{
		names:  append([]string(nil), names...),
		byName: make(map[string][]int, len(names)),
	}
	for i, name := range names {
		idx.byName[name] = append(idx.byName[name], i)
	}
	return idx
}

// NewSynthetic builds the positional "0", "1", … header used when
// --no-headers is set (spec.md §9).
func NewSynthetic(width int) Index {
	names := make([]string, width)
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	return New(names)
}

// Width returns the number of columns.
func (idx Index) Width() int { return len(idx.names) }

// Names returns the header row backing this index. Callers must not mutate
// the returned slice.
func (idx Index) Names() []string { return idx.names }

// Find resolves a column descriptor to a 0-based index, returning false
// when the name is unknown, the occurrence doesn't exist, or the position
// (after negative wraparound) is out of range.
func (idx Index) Find(by By) (int, bool) {
	switch b := by.(type) {
	case ByName:
		positions, ok := idx.byName[b.Name]
		if !ok || len(positions) == 0 {
			return 0, false
		}
		return positions[0], true
	case ByNameOccurrence:
		positions, ok := idx.byName[b.Name]
		if !ok || b.Occurrence < 0 || b.Occurrence >= len(positions) {
			return 0, false
		}
		return positions[b.Occurrence], true
	case ByPosition:
		width := len(idx.names)
		pos := b.Position
		if pos < 0 {
			pos += width
		}
		if pos < 0 || pos >= width {
			return 0, false
		}
		return pos, true
	default:
		return 0, false
	}
}
