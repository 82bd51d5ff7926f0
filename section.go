package toggle

// Wire format names used in SectionError.
const (
	formatYAML    = "yaml"
	formatJSON    = "json"
	formatMsgpack = "msgpack"
	formatBSON    = "bson"
	formatXML     = "xml"
)

// entry is one key/value pair of a section, held in the format's raw form.
type entry[R any] struct {
	key  string
	raw  R
	line int
}

// duplicatePolicy mirrors how a format treats repeated map keys.
type duplicatePolicy int

const (
	lastWins duplicatePolicy = iota
	rejectDuplicates
)

// split finds the discriminant among entries and decides the section state.
//
// asBool interprets the discriminant's raw value. When the section is on, rest
// holds every other entry in source order, ready to be replayed into T. When it
// is off, rest is nil and nothing else has been looked at.
func split[R any](format string, entries []entry[R], policy duplicatePolicy, asBool func(R) (bool, error)) (on bool, rest []entry[R], err error) {
	found := -1
	for i, en := range entries {
		if en.key != DiscriminantKey {
			continue
		}
		if found >= 0 && policy == rejectDuplicates {
			se := newSectionError(ErrDuplicateKey, format, DiscriminantKey, nil)
			se.Line = en.line
			return false, nil, se
		}
		found = i
	}

	if found < 0 {
		return false, nil, newSectionError(ErrMissingDiscriminant, format, DiscriminantKey, nil)
	}

	on, err = asBool(entries[found].raw)
	if err != nil {
		se := newSectionError(ErrTypeMismatch, format, DiscriminantKey, err)
		se.Line = entries[found].line
		return false, nil, se
	}
	if !on {
		return false, nil, nil
	}

	rest = make([]entry[R], 0, len(entries)-1)
	for _, en := range entries {
		if en.key == DiscriminantKey {
			continue
		}
		rest = append(rest, en)
	}
	return true, rest, nil
}

// reservedKey reports the first payload entry that collides with the discriminant.
func reservedKey[R any](format string, entries []entry[R]) error {
	for _, en := range entries {
		if en.key == DiscriminantKey {
			se := newSectionError(ErrReservedKey, format, DiscriminantKey, nil)
			se.Line = en.line
			return se
		}
	}
	return nil
}
