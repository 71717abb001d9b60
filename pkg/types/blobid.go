package types

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// BlobID is a Git-style SHA-1 content hash of a scanned file.
type BlobID [20]byte

// ComputeBlobID computes the Git blob ID: SHA-1("blob {len}\0{content}").
func ComputeBlobID(content []byte) BlobID {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d\x00", len(content))
	h.Write(content)

	var id BlobID
	copy(id[:], h.Sum(nil))
	return id
}

// IsZero reports whether no content was hashed into id.
func (id BlobID) IsZero() bool {
	return id == BlobID{}
}

// Hex returns the 40-character hex form.
func (id BlobID) Hex() string {
	return hex.EncodeToString(id[:])
}

func (id BlobID) String() string {
	return id.Hex()
}

// MarshalJSON implements json.Marshaler.
func (id BlobID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.Hex())
}
