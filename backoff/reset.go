package backoff

import (
	"time"
)

// ResetPolicy decides when the restart counter goes back to zero.
// It's either AutoReset or ManualReset.
type ResetPolicy interface {
	resetPolicy()
	String() string
}

// AutoReset zeroes the counter once a started child survived ResetBackoff without the
// counter moving. A zero ResetBackoff means MinBackoff.
type AutoReset struct {
	ResetBackoff time.Duration
}

func (AutoReset) resetPolicy() {}

func (AutoReset) String() string {
	return "auto"
}

// ManualReset zeroes the counter only when a Reset message is received
type ManualReset struct{}

func (ManualReset) resetPolicy() {}

func (ManualReset) String() string {
	return "manual"
}
