package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	// Seed from crypto/rand; ulid.Monotonic keeps IDs generated within the
	// same millisecond lexicographically increasing.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID string for a trade journal record.
//
// ULIDs sort by creation time, so "newest first" listings can order by ID
// when two trades share a timestamp.
func New() string {
	return NewAt(time.Now())
}

// NewAt returns a ULID stamped with t. Journal imports use it so that
// backfilled trades sort by their own timestamp rather than import time.
func NewAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(t.UTC()), mono)
	if err != nil {
		// Only fails if entropy fails or the monotonic counter overflows.
		panic(err)
	}
	return id.String()
}

// Valid reports whether s parses as a ULID.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
