package reconciliation

import "strings"

// Normalize canonicalizes an item name for matching: surrounding whitespace is
// trimmed, letters are lowercased and every inner whitespace run becomes a
// single space. Whitespace-only input yields "".
func Normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
