package postgres

import (
	"encoding/json"
)

// payloadOrEmpty keeps JSONB columns non-null for empty collections.
func payloadOrEmpty(b []byte) []byte {
	if len(b) == 0 || !json.Valid(b) {
		return []byte("[]")
	}
	return b
}
