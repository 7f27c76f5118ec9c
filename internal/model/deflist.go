package model

import (
	"fmt"
	"strconv"
	"strings"
)

// DefEntry is one occurrence of an identifier's definition.
type DefEntry struct {
	ID     uint64
	Kind   Kind
	Line   int
	Family Family
}

// DefList stores the set of (id, kind, line, family) tuples at which an
// identifier is defined, plus the set of distinct families in which it was
// defined (for fast read-side filtering). Append-only; grown by
// later-running DefExtractor workers on later-running tags.
//
// Wire format: "<entries>#<families>" where entries is a comma-separated
// list of "<id><kind-char><line><family-char>" records and families is a
// comma-separated list of family characters. This must be reproduced
// bit-exactly: it is consumed by a read-side query layer outside this
// module's scope.
type DefList struct {
	Entries  []DefEntry
	families []Family // insertion order, deduplicated
}

// NewDefList returns an empty DefList, ready to Append to.
func NewDefList() *DefList {
	return &DefList{}
}

// ParseDefList decodes a DefList from its packed wire format.
func ParseDefList(data []byte) (*DefList, error) {
	parts := strings.SplitN(string(data), "#", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("model: malformed DefList record %q", data)
	}
	dl := &DefList{}
	if parts[1] != "" {
		for _, fc := range strings.Split(parts[1], ",") {
			if len(fc) != 1 {
				return nil, fmt.Errorf("model: malformed DefList family char %q", fc)
			}
			fam, ok := FamilyFromByte(fc[0])
			if !ok {
				return nil, fmt.Errorf("model: unknown DefList family char %q", fc)
			}
			dl.families = append(dl.families, fam)
		}
	}
	if parts[0] == "" {
		return dl, nil
	}
	for _, rec := range strings.Split(parts[0], ",") {
		e, err := parseDefEntry(rec)
		if err != nil {
			return nil, err
		}
		dl.Entries = append(dl.Entries, e)
	}
	return dl, nil
}

func parseDefEntry(rec string) (DefEntry, error) {
	// "<id><kind-char><line><family-char>": split by scanning digit runs
	// around the two single-character markers.
	i := 0
	for i < len(rec) && rec[i] >= '0' && rec[i] <= '9' {
		i++
	}
	if i == 0 || i == len(rec) {
		return DefEntry{}, fmt.Errorf("model: malformed DefList entry %q", rec)
	}
	id, err := strconv.ParseUint(rec[:i], 10, 64)
	if err != nil {
		return DefEntry{}, fmt.Errorf("model: malformed DefList entry id %q: %w", rec, err)
	}
	kindChar := rec[i]
	kind, ok := KindFromByte(kindChar)
	if !ok {
		return DefEntry{}, fmt.Errorf("model: unknown DefList kind char %q in %q", kindChar, rec)
	}
	j := i + 1
	for j < len(rec) && rec[j] >= '0' && rec[j] <= '9' {
		j++
	}
	if j == i+1 || j != len(rec)-1 {
		return DefEntry{}, fmt.Errorf("model: malformed DefList entry line %q", rec)
	}
	line, err := strconv.Atoi(rec[i+1 : j])
	if err != nil {
		return DefEntry{}, fmt.Errorf("model: malformed DefList entry line %q: %w", rec, err)
	}
	famChar := rec[j]
	fam, ok := FamilyFromByte(famChar)
	if !ok {
		return DefEntry{}, fmt.Errorf("model: unknown DefList family char %q in %q", famChar, rec)
	}
	return DefEntry{ID: id, Kind: kind, Line: line, Family: fam}, nil
}

// Append records a new definition. A Kind with no wire encoding
// (KindUnknown, or any character parse-defs emitted that we don't
// recognize) is silently dropped.
func (dl *DefList) Append(id uint64, kind Kind, line int, family Family) {
	if _, ok := kind.Byte(); !ok {
		return
	}
	dl.Entries = append(dl.Entries, DefEntry{ID: id, Kind: kind, Line: line, Family: family})
	dl.addFamily(family)
}

func (dl *DefList) addFamily(family Family) {
	for _, f := range dl.families {
		if f == family {
			return
		}
	}
	dl.families = append(dl.families, family)
}

// Families returns the distinct families this identifier was defined in,
// in first-seen order.
func (dl *DefList) Families() []Family {
	return dl.families
}

// Pack serializes the DefList to its on-disk wire format.
func (dl *DefList) Pack() []byte {
	var b strings.Builder
	for i, e := range dl.Entries {
		if i > 0 {
			b.WriteByte(',')
		}
		kc, _ := e.Kind.Byte()
		fmt.Fprintf(&b, "%d%c%d%c", e.ID, kc, e.Line, e.Family.Byte())
	}
	b.WriteByte('#')
	for i, f := range dl.families {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte(f.Byte())
	}
	return []byte(b.String())
}
