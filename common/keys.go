package common

const (
	// IDLen is the length of the fixed-width identifier encoding used in
	// storage keys.
	IDLen = 8

	// MaxID is the largest identifier accepted in storage keys.
	MaxID = 1<<63 - 1

	// ErrInvalidID is thrown by IDBytes for identifiers out of [0, MaxID].
	ErrInvalidID = "invalid identifier"
)

// ValidID returns true if id can be encoded into a storage key. Lookups by
// an invalid id must be treated as misses.
func ValidID(id int) bool {
	return id >= 0 && id <= MaxID
}

// BigEndian encodes non-negative n as size big-endian bytes. Higher bytes
// not fitting into size are dropped.
func BigEndian(n int, size int) []byte {
	b := make([]byte, size)
	for i := size - 1; i >= 0; i-- {
		b[i] = byte(n % 256)
		n = n / 256
	}
	return b
}

// IDBytes encodes identifier as IDLen big-endian bytes. Fixed width keeps
// composite keys unambiguous and makes storage iteration follow numeric
// order. It panics with ErrInvalidID if id is not ValidID.
func IDBytes(id int) []byte {
	if !ValidID(id) {
		panic(ErrInvalidID)
	}
	return BigEndian(id, IDLen)
}

// PrefixedID returns prefix followed by IDBytes(id).
func PrefixedID(prefix byte, id int) []byte {
	return append([]byte{prefix}, IDBytes(id)...)
}
