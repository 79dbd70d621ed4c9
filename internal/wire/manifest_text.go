package wire

import "strings"

// Entry is one parsed line of the manifest catalog: a command id, its
// declared wire type (Invokable for commands), and its path-shaped name
// (e.g. "aircraft/0/name").
type Entry struct {
	CommandID int32
	Type      Type
	Name      string
}

// ParseManifestText splits the manifest response text into lines and
// parses each non-empty one as "command_id,type,name". Lines whose
// command_id does not parse as an integer are silently ignored, per the
// manifest loader's failure policy (§4.3) — a malformed individual line
// must not abort the whole catalog.
//
// Splitting stops after the first two commas; the remainder of the line
// is taken verbatim as the name (§9, "Manifest parsing ambiguity") so
// names that legitimately contain commas are not mangled.
func ParseManifestText(text string) []Entry {
	lines := strings.Split(text, "\n")
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		entry, ok := parseManifestLine(line)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func parseManifestLine(line string) (Entry, bool) {
	firstComma := strings.IndexByte(line, ',')
	if firstComma < 0 {
		return Entry{}, false
	}
	rest := line[firstComma+1:]
	secondComma := strings.IndexByte(rest, ',')
	if secondComma < 0 {
		return Entry{}, false
	}

	idField := line[:firstComma]
	typeField := rest[:secondComma]
	name := rest[secondComma+1:]

	id, ok := parseInt32(idField)
	if !ok {
		return Entry{}, false
	}
	typeNum, ok := parseInt32(typeField)
	if !ok {
		return Entry{}, false
	}

	return Entry{CommandID: id, Type: ParseType(int64(typeNum)), Name: name}, true
}

// parseInt32 is a small manual integer parser (rather than
// strconv.ParseInt) so a malformed field degrades to "skip this line"
// without allocating an error per line in the common case.
func parseInt32(s string) (int32, bool) {
	if s == "" {
		return 0, false
	}
	neg := false
	i := 0
	if s[0] == '-' || s[0] == '+' {
		neg = s[0] == '-'
		i = 1
	}
	if i == len(s) {
		return 0, false
	}
	var n int64
	for ; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int64(c-'0')
		if n > 1<<32 {
			return 0, false
		}
	}
	if neg {
		n = -n
	}
	return int32(n), true
}
