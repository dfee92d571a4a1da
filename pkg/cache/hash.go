package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// snapshotDigest hashes a graph hash together with the view state that was
// rendered on top of it. A nil Highlight and an empty one hash alike.
func snapshotDigest(graphHash string, opts SnapshotKeyOpts) string {
	if opts.Highlight == nil {
		opts.Highlight = []string{}
	}
	if opts.Links == nil {
		opts.Links = []int{}
	}
	state, _ := json.Marshal(opts)

	h := sha256.New()
	h.Write([]byte(graphHash))
	h.Write([]byte{0})
	h.Write(state)
	return hex.EncodeToString(h.Sum(nil))
}
