package messages

import (
	"encoding/binary"
)

// Layout (byte-wise, lexicographically sortable):
// - ch/{channel}/m
// - ch/{channel}/e/{id_be8}

var (
	chPrefix   = []byte("ch/")
	metaSuffix = []byte("/m")
	entrySeg   = []byte("/e/")
)

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// KeyMeta builds the channel metadata key.
func KeyMeta(channel string) []byte {
	k := make([]byte, 0, len(chPrefix)+len(channel)+len(metaSuffix))
	k = append(k, chPrefix...)
	k = append(k, channel...)
	k = append(k, metaSuffix...)
	return k
}

// KeyEntryPrefix is the common prefix of every message key in channel.
func KeyEntryPrefix(channel string) []byte {
	k := make([]byte, 0, len(chPrefix)+len(channel)+len(entrySeg)+8)
	k = append(k, chPrefix...)
	k = append(k, channel...)
	k = append(k, entrySeg...)
	return k
}

// KeyEntry builds the message key with a big-endian id for proper ordering.
func KeyEntry(channel string, id uint64) []byte {
	return appendBE8(KeyEntryPrefix(channel), id)
}

// idFromKey extracts the trailing id of an entry key.
func idFromKey(key []byte) (uint64, bool) {
	if len(key) < 8 {
		return 0, false
	}
	return binary.BigEndian.Uint64(key[len(key)-8:]), true
}
