package badger

import "github.com/go-crypt/x/blake2b"

// Key prefixes for different data types
const (
	vectorEntryPrefix = "vecent"
)

// makeVectorKey generates the store key for a URL's vector entry.
// The URL is hashed so key length stays bounded regardless of URL length;
// the full URL is recoverable from the stored entry itself.
func makeVectorKey(url string) []byte {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(url))
	sum := h.Sum(nil)

	prefix := vectorEntryPrefix + ":"
	key := make([]byte, len(prefix)+len(sum))
	offset := copy(key, prefix)
	copy(key[offset:], sum)
	return key
}
