// Package channel stores channel metadata alongside the pebble message logs.
package channel

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	pebblestore "github.com/rzbill/scrollback/internal/storage/pebble"
)

// DefaultNamePattern is the channel name rule used when config leaves it empty.
const DefaultNamePattern = `^[a-z0-9_-]{1,64}$`

// Meta holds channel metadata.
type Meta struct {
	Name        string `json:"name"`
	CreatedAtMs int64  `json:"createdAtMs"`
	Backend     string `json:"backend"`
}

var metaPrefix = []byte("chmeta/")

func metaKey(name string) []byte {
	k := make([]byte, 0, len(metaPrefix)+len(name))
	k = append(k, metaPrefix...)
	k = append(k, name...)
	return k
}

// Validator checks channel names against a compiled pattern.
type Validator struct {
	re *regexp.Regexp
}

// NewValidator compiles pattern, falling back to DefaultNamePattern when empty.
func NewValidator(pattern string) (*Validator, error) {
	if pattern == "" {
		pattern = DefaultNamePattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("channel name pattern: %w", err)
	}
	return &Validator{re: re}, nil
}

// ValidName returns an error when name does not satisfy the pattern.
func (v *Validator) ValidName(name string) error {
	if !v.re.MatchString(name) {
		return fmt.Errorf("invalid channel name %q (must match %s)", name, v.re.String())
	}
	return nil
}

// Ensure creates a channel meta record if absent, returning the effective meta.
// Idempotent: returns existing if already present.
func Ensure(db *pebblestore.DB, name, backend string) (Meta, error) {
	if m, err := Get(db, name); err == nil {
		return m, nil
	} else if !errors.Is(err, pebblestore.ErrNotFound) {
		return Meta{}, err
	}
	m := Meta{Name: name, CreatedAtMs: time.Now().UnixMilli(), Backend: backend}
	b, err := json.Marshal(m)
	if err != nil {
		return Meta{}, err
	}
	if err := db.Set(metaKey(name), b); err != nil {
		return Meta{}, err
	}
	return m, nil
}

// Get loads the meta for name. Missing channels return pebblestore.ErrNotFound.
func Get(db *pebblestore.DB, name string) (Meta, error) {
	b, err := db.Get(metaKey(name))
	if err != nil {
		return Meta{}, err
	}
	var m Meta
	if err := json.Unmarshal(b, &m); err != nil {
		return Meta{}, fmt.Errorf("decode channel meta %s: %w", name, err)
	}
	return m, nil
}

// List returns every channel meta in name order.
func List(db *pebblestore.DB) ([]Meta, error) {
	it, err := db.NewPrefixIter(metaPrefix)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	out := []Meta{}
	for ok := it.First(); ok; ok = it.Next() {
		var m Meta
		if err := json.Unmarshal(it.Value(), &m); err != nil {
			return nil, fmt.Errorf("decode channel meta %s: %w", it.Key()[len(metaPrefix):], err)
		}
		out = append(out, m)
	}
	return out, it.Error()
}
