// Package dtcompat extracts device-tree `compatible = "vendor,device";`
// string literals from raw blob bytes. Unlike defs/refs/docs extraction,
// this is not delegated to the external revision-control helper — it
// runs in-process against the blob bytes CompatExtractor and
// CompatDocExtractor already hold.
package dtcompat

// Occurrence is one compatible-string literal found at a given line.
type Occurrence struct {
	Compatible string
	Line       int
}

// Extract scans data for every `compatible` property assignment and
// returns each quoted string value it contains, tagged with the line on
// which the property keyword appeared. A single assignment may list
// several comma-separated strings (`compatible = "a,b", "a,c";`); all are
// attributed to the same line.
func Extract(data []byte) []Occurrence {
	var out []Occurrence
	n := len(data)
	line := 1
	i := 0
	for i < n {
		if data[i] == '\n' {
			line++
			i++
			continue
		}
		if matchWord(data, i, "compatible") {
			stmtLine := line
			j := i + len("compatible")
			for j < n && data[j] != ';' {
				switch {
				case data[j] == '\n':
					line++
					j++
				case data[j] == '"':
					k := j + 1
					for k < n && data[k] != '"' {
						if data[k] == '\n' {
							line++
						}
						k++
					}
					if k >= n {
						j = k
						continue
					}
					out = append(out, Occurrence{Compatible: string(data[j+1 : k]), Line: stmtLine})
					j = k + 1
				default:
					j++
				}
			}
			i = j
			continue
		}
		i++
	}
	return out
}

func matchWord(data []byte, at int, word string) bool {
	if at+len(word) > len(data) {
		return false
	}
	for k := 0; k < len(word); k++ {
		if data[at+k] != word[k] {
			return false
		}
	}
	if at > 0 && isWordByte(data[at-1]) {
		return false
	}
	end := at + len(word)
	if end < len(data) && isWordByte(data[end]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
