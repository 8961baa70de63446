// Package id generates identifiers for users and code issuances.
package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New returns a ULID string. ULIDs sort by creation time, which keeps
// directory listings in sign-up order without a secondary index.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
