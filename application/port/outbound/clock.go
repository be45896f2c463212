package outbound

import "time"

// Clock is the single time source for token issuance and verification.
type Clock interface {
	Now() time.Time
}
