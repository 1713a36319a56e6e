package discount

import (
	"os"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
)

// StaticCodes is a fixed in-memory code set. Used when no ingested filter
// file is configured; seeded with the demo code the UI ships with.
type StaticCodes map[string]struct{}

// DefaultCodes returns the demo code set.
func DefaultCodes() StaticCodes {
	return StaticCodes{"XVYZ6H": {}}
}

// Contains reports whether the code is in the set. Case-insensitive.
func (c StaticCodes) Contains(code string) bool {
	_, ok := c[strings.ToUpper(code)]
	return ok
}

// BloomCodes is a probabilistic code set built offline by cmd/promo-ingest
// from the raw promo code lists. False positives are acceptable here: a
// wrongly accepted code still grants only the fixed stub discount.
type BloomCodes struct {
	filter *bloom.BloomFilter
}

// NewBloomCodes wraps an already-built filter.
func NewBloomCodes(filter *bloom.BloomFilter) *BloomCodes {
	return &BloomCodes{filter: filter}
}

// LoadBloomCodes reads a serialized bloom filter written by promo-ingest.
func LoadBloomCodes(path string) (*BloomCodes, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open promo filter")
	}
	defer f.Close()

	var filter bloom.BloomFilter
	if _, err := filter.ReadFrom(f); err != nil {
		return nil, errors.Wrap(err, "read promo filter")
	}
	return &BloomCodes{filter: &filter}, nil
}

// Contains reports whether the code was present in the ingested lists.
func (c *BloomCodes) Contains(code string) bool {
	return c.filter.TestString(strings.ToUpper(code))
}
