package model

import (
	"fmt"
	"strconv"
	"strings"
)

// RefEntry is one blob's occurrences of an identifier: all the line
// numbers within that blob, and the family of the blob.
type RefEntry struct {
	ID     uint64
	Lines  string // comma-separated line numbers, in encounter order
	Family Family
}

// RefList stores, per identifier, the set of blobs that reference it and
// the lines within each. Used identically for refs, docs, comps and
// comps_docs.
//
// Wire format: newline-terminated records "<id>:<comma-lines>:<family-char>\n".
type RefList struct {
	Entries []RefEntry
}

// NewRefList returns an empty RefList, ready to Append to.
func NewRefList() *RefList {
	return &RefList{}
}

// ParseRefList decodes a RefList from its packed wire format.
func ParseRefList(data []byte) (*RefList, error) {
	rl := &RefList{}
	s := string(data)
	if s == "" {
		return rl, nil
	}
	for _, line := range strings.Split(strings.TrimSuffix(s, "\n"), "\n") {
		parts := strings.SplitN(line, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("model: malformed RefList record %q", line)
		}
		id, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("model: malformed RefList id %q: %w", line, err)
		}
		if len(parts[2]) != 1 {
			return nil, fmt.Errorf("model: malformed RefList family %q", line)
		}
		fam, ok := FamilyFromByte(parts[2][0])
		if !ok {
			return nil, fmt.Errorf("model: unknown RefList family char %q", parts[2])
		}
		rl.Entries = append(rl.Entries, RefEntry{ID: id, Lines: parts[1], Family: fam})
	}
	return rl, nil
}

// Append records that blob id references this identifier at the given
// comma-separated line list, with the blob's family.
func (rl *RefList) Append(id uint64, lines string, family Family) {
	rl.Entries = append(rl.Entries, RefEntry{ID: id, Lines: lines, Family: family})
}

// Pack serializes the RefList to its on-disk wire format.
func (rl *RefList) Pack() []byte {
	var b strings.Builder
	for _, e := range rl.Entries {
		fmt.Fprintf(&b, "%d:%s:%c\n", e.ID, e.Lines, e.Family.Byte())
	}
	return []byte(b.String())
}
