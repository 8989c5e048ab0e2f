package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Identity derives the stable read-ledger key for an article. It depends
// only on the feed URL and the entry link, so it survives reordering and
// pagination of the feed across runs.
func Identity(feedURL, link string) string {
	sum := sha256.Sum256([]byte(feedURL + "\n" + link))
	return hex.EncodeToString(sum[:])
}

// MatchesFilter reports whether title contains term case-insensitively.
// An empty term matches everything.
func MatchesFilter(title, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(term))
}
