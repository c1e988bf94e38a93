// Package idx mints the ULIDs used as surrogate keys for administrators and
// accounts, as session token IDs and as request IDs.
package idx

import (
	"crypto/rand"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID is a ULID in canonical 26 character Crockford base32.
type ID string

// ErrInvalid is returned by Parse for anything that is not a ULID.
var ErrInvalid = errors.New("idx: invalid ulid")

// IDs minted in the same millisecond increment the entropy instead of
// drawing fresh bytes, so they still sort in mint order.
var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New mints an ID stamped with the current time.
func New() ID { return NewAt(time.Now()) }

// NewAt mints an ID stamped with t, truncated to the millisecond.
func NewAt(t time.Time) ID {
	mu.Lock()
	defer mu.Unlock()
	return ID(ulid.MustNew(ulid.Timestamp(t), entropy).String())
}

// Parse accepts s when it is a well formed ULID. Lowercase input is
// normalised to the canonical uppercase form.
func Parse(s string) (ID, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return "", ErrInvalid
	}
	return ID(u.String()), nil
}

func (id ID) String() string { return string(id) }

// Time is the millisecond timestamp embedded in id, or the zero time when
// id does not parse.
func (id ID) Time() time.Time {
	u, err := ulid.ParseStrict(string(id))
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time())
}
