package enums

import "fmt"

// ModerationStatus is the review state shared by products, vendor
// applications, and ad slot requests.
type ModerationStatus string

const (
	ModerationStatusPending  ModerationStatus = "pending"
	ModerationStatusApproved ModerationStatus = "approved"
	ModerationStatusRejected ModerationStatus = "rejected"
)

var validModerationStatuses = []ModerationStatus{
	ModerationStatusPending,
	ModerationStatusApproved,
	ModerationStatusRejected,
}

// String implements fmt.Stringer.
func (s ModerationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ModerationStatus.
func (s ModerationStatus) IsValid() bool {
	for _, candidate := range validModerationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status can no longer change.
func (s ModerationStatus) IsTerminal() bool {
	return s == ModerationStatusApproved || s == ModerationStatusRejected
}

// ParseModerationStatus converts raw input into a ModerationStatus.
func ParseModerationStatus(value string) (ModerationStatus, error) {
	for _, candidate := range validModerationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid moderation status %q", value)
}

// ModerationAction is a reviewer decision applied to a pending record.
type ModerationAction string

const (
	ModerationActionApprove ModerationAction = "approve"
	ModerationActionReject  ModerationAction = "reject"
)

var validModerationActions = []ModerationAction{
	ModerationActionApprove,
	ModerationActionReject,
}

// String implements fmt.Stringer.
func (a ModerationAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ModerationAction.
func (a ModerationAction) IsValid() bool {
	for _, candidate := range validModerationActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// TargetStatus returns the terminal status the action drives toward.
func (a ModerationAction) TargetStatus() ModerationStatus {
	if a == ModerationActionApprove {
		return ModerationStatusApproved
	}
	return ModerationStatusRejected
}

// ParseModerationAction converts raw input into a ModerationAction.
func ParseModerationAction(value string) (ModerationAction, error) {
	for _, candidate := range validModerationActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid moderation action %q", value)
}
