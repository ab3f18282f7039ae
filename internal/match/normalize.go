package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent normalizes an identifier so that the Go and protobuf
// spellings of one name compare equal:
// 1. Split into words at separators and case changes.
// 2. Case-fold each word to lower.
// 3. Join without separators.
//
// "RunAt", "run_at" and "RUN_AT" all normalize to "runat".
func NormalizeIdent(s string) string {
	return strings.Join(TokenizeIdent(s), "")
}

// TokenizeIdent splits an identifier into lowercase words.
// Examples:
//   - "OrderID" -> ["order", "id"]
//   - "HttpMethod_GET" -> ["http", "method", "get"]
//   - "XMLParser" -> ["xml", "parser"]
func TokenizeIdent(s string) []string {
	var (
		tokens  []string
		current []rune
	)

	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, strings.ToLower(string(current)))
			current = current[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && wordBoundary(runes, i) {
			flush()
		}

		current = append(current, r)
	}

	flush()

	return tokens
}

// StripArmPrefix removes a protoc-gen-go style "Type_" prefix from an arm name.
func StripArmPrefix(name, prefix string) string {
	if prefix != "" && strings.HasPrefix(name, prefix) && len(name) > len(prefix) {
		return name[len(prefix):]
	}

	return name
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// wordBoundary reports whether a new word starts at runes[i].
func wordBoundary(runes []rune, i int) bool {
	if !unicode.IsUpper(runes[i]) {
		return false
	}

	// lower -> Upper: "orderID" splits before 'I'.
	if !unicode.IsUpper(runes[i-1]) {
		return true
	}

	// End of an acronym: "XMLParser" splits before 'P'.
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
