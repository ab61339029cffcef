package service

import "github.com/oklog/ulid/v2"

// generateID creates a new ULID for entity identifiers. ULIDs sort by
// creation time, which keeps insertion-order listings cheap.
func generateID() string {
	return ulid.Make().String()
}
