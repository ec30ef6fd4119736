package token

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Canonical folds an identifier spelling to the form used for name
// resolution and keyword lookup.
//
// Ada identifiers are case-insensitive, so two spellings that differ only
// in case must resolve to the same entity (spec property: identifier case
// insensitivity). Source files may also contain identifiers typed with
// precomposed or decomposed Unicode accents that render identically but
// compare unequal byte-for-byte; NFC-normalizing before folding closes
// that gap for the (rare, but legal in extended character sets) non-ASCII
// identifiers this front end accepts.
func Canonical(spelling string) string {
	return strings.ToUpper(norm.NFC.String(spelling))
}
