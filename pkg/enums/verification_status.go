package enums

import "fmt"

// VerificationStatus captures the customer trust-state gate.
type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "PENDING"
	VerificationStatusVerified VerificationStatus = "VERIFIED"
	VerificationStatusRejected VerificationStatus = "REJECTED"
)

var validVerificationStatuses = []VerificationStatus{
	VerificationStatusPending,
	VerificationStatusVerified,
	VerificationStatusRejected,
}

// PENDING is the entry state only; nothing transitions back into it.
var verificationStatusTransitions = map[VerificationStatus][]VerificationStatus{
	VerificationStatusPending:  {VerificationStatusVerified, VerificationStatusRejected},
	VerificationStatusVerified: {VerificationStatusRejected},
	VerificationStatusRejected: {VerificationStatusVerified},
}

// String implements fmt.Stringer.
func (s VerificationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known VerificationStatus.
func (s VerificationStatus) IsValid() bool {
	for _, candidate := range validVerificationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the customer may move from s to next.
func (s VerificationStatus) CanTransitionTo(next VerificationStatus) bool {
	for _, candidate := range verificationStatusTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseVerificationStatus converts raw input into a VerificationStatus.
func ParseVerificationStatus(value string) (VerificationStatus, error) {
	for _, candidate := range validVerificationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid verification status %q", value)
}
