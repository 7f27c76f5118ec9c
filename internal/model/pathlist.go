package model

import (
	"fmt"
	"strconv"
	"strings"
)

// PathEntry is one (id, path) binding recorded for a tag.
type PathEntry struct {
	ID   uint64
	Path string
}

// PathList stores a tag's ordered (id, path) pairs, sorted ascending by
// id. Inserted once by VersionRecorder; never mutated afterward.
//
// Wire format: newline-terminated records "<id> <path>\n".
type PathList struct {
	Entries []PathEntry
}

// NewPathList returns an empty PathList, ready to Append to.
func NewPathList() *PathList {
	return &PathList{}
}

// ParsePathList decodes a PathList from its packed wire format.
func ParsePathList(data []byte) (*PathList, error) {
	pl := &PathList{}
	s := string(data)
	if s == "" {
		return pl, nil
	}
	for _, line := range strings.Split(strings.TrimSuffix(s, "\n"), "\n") {
		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("model: malformed PathList record %q", line)
		}
		id, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("model: malformed PathList id %q: %w", line, err)
		}
		pl.Entries = append(pl.Entries, PathEntry{ID: id, Path: parts[1]})
	}
	return pl, nil
}

// Append records one (id, path) binding. Callers are responsible for
// appending in ascending id order.
func (pl *PathList) Append(id uint64, path string) {
	pl.Entries = append(pl.Entries, PathEntry{ID: id, Path: path})
}

// Pack serializes the PathList to its on-disk wire format.
func (pl *PathList) Pack() []byte {
	var b strings.Builder
	for _, e := range pl.Entries {
		fmt.Fprintf(&b, "%d %s\n", e.ID, e.Path)
	}
	return []byte(b.String())
}
