package model

import (
	"path/filepath"
	"strings"
)

// Family is the coarse language classification derived from a blob's
// basename: C (C/C++/asm), K (Kconfig), D (device tree), M (Makefile),
// B (device-tree binding doc), TS (TypeScript-like).
type Family byte

const (
	// None means the basename matched no known family; the blob is
	// skipped by every extractor except CompatDocExtractor (family B is
	// assigned explicitly by the caller, never derived from a basename).
	None Family = iota
	FamilyC
	FamilyK
	FamilyD
	FamilyM
	FamilyB
	FamilyTS
)

func (f Family) String() string {
	switch f {
	case FamilyC:
		return "C"
	case FamilyK:
		return "K"
	case FamilyD:
		return "D"
	case FamilyM:
		return "M"
	case FamilyB:
		return "B"
	case FamilyTS:
		return "TS"
	default:
		return "none"
	}
}

// Byte returns the single-character wire encoding used in DefList/RefList records.
func (f Family) Byte() byte {
	switch f {
	case FamilyC:
		return 'C'
	case FamilyK:
		return 'K'
	case FamilyD:
		return 'D'
	case FamilyM:
		return 'M'
	case FamilyB:
		return 'B'
	case FamilyTS:
		return 'T'
	default:
		return 0
	}
}

// FamilyFromByte decodes the single-character wire encoding. ok is false
// for an unrecognized byte.
func FamilyFromByte(b byte) (Family, bool) {
	switch b {
	case 'C':
		return FamilyC, true
	case 'K':
		return FamilyK, true
	case 'D':
		return FamilyD, true
	case 'M':
		return FamilyM, true
	case 'B':
		return FamilyB, true
	case 'T':
		return FamilyTS, true
	default:
		return None, false
	}
}

// FamilyOfBasename classifies a blob by its basename: extension matching
// is case-insensitive; Kconfig/Makefile matching is a basename prefix
// test that additionally excludes ".rst" documentation files.
func FamilyOfBasename(basename string) Family {
	ext := strings.ToLower(filepath.Ext(basename))
	name := strings.ToLower(basename)

	switch ext {
	case ".c", ".cc", ".cpp", ".c++", ".cxx", ".h", ".s":
		return FamilyC
	case ".dts", ".dtsi":
		return FamilyD
	case ".ts":
		return FamilyTS
	}

	if ext != ".rst" {
		if strings.HasPrefix(name, "kconfig") {
			return FamilyK
		}
		if strings.HasPrefix(name, "makefile") {
			return FamilyM
		}
	}

	return None
}

// compatibilityList records, for a requested family, which file families
// (and which macro-origin families, via the "M" suffix convention) may
// define an identifier that's considered a match. Kept here for the
// benefit of a future read-side query layer; the indexing pipeline
// itself doesn't consult it.
var compatibilityList = map[Family][]string{
	FamilyC:  {"C", "K"},
	FamilyK:  {"K"},
	FamilyD:  {"D", "CM"},
	FamilyM:  {"K"},
	FamilyTS: {"TS"},
}

// CompatibleFamily reports whether any of fileFamilies is compatible with
// requested, per the table above.
func CompatibleFamily(fileFamilies []Family, requested Family) bool {
	allowed := compatibilityList[requested]
	for _, ff := range fileFamilies {
		s := ff.String()
		for _, a := range allowed {
			if a == s {
				return true
			}
		}
	}
	return false
}

// CompatibleMacro reports whether a macro defined in any of macroFamilies
// is compatible with requested (macro-origin families are suffixed "M" in
// the compatibility table).
func CompatibleMacro(macroFamilies []Family, requested Family) bool {
	allowed := compatibilityList[requested]
	for _, mf := range macroFamilies {
		s := mf.String() + "M"
		for _, a := range allowed {
			if a == s {
				return true
			}
		}
	}
	return false
}
