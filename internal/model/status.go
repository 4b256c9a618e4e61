package model

import "fmt"

// Status is the stage a job application is in. The stored value and the
// API value are the same uppercase code.
type Status string

const (
	StatusApplied   Status = "APPLIED"
	StatusRejected  Status = "REJECTED"
	StatusScreen    Status = "SCREEN"
	StatusInterview Status = "INTERVIEW"
	StatusOffer     Status = "OFFER"
	StatusWithdrawn Status = "WITHDRAWN"
	StatusNoOffer   Status = "NOOFFER"
)

var statuses = map[Status]struct{}{
	StatusApplied:   {},
	StatusRejected:  {},
	StatusScreen:    {},
	StatusInterview: {},
	StatusOffer:     {},
	StatusWithdrawn: {},
	StatusNoOffer:   {},
}

func (s Status) Valid() bool {
	_, ok := statuses[s]
	return ok
}

// ParseStatus rejects values outside the closed set. Unknown codes are
// never stored.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}
