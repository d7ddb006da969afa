package messages

import (
	"bytes"
	"testing"
)

func TestEntryKeysSortById(t *testing.T) {
	a := KeyEntry("general", 9)
	b := KeyEntry("general", 10)
	if bytes.Compare(a, b) >= 0 {
		t.Fatalf("expected key(9) < key(10)")
	}
	if !bytes.HasPrefix(a, KeyEntryPrefix("general")) {
		t.Fatalf("entry key lacks channel prefix")
	}
	if id, ok := idFromKey(b); !ok || id != 10 {
		t.Fatalf("idFromKey = %d, %v", id, ok)
	}
	if bytes.HasPrefix(KeyMeta("general"), KeyEntryPrefix("general")) {
		t.Fatalf("meta key must sit outside the entry range")
	}
}
