package models

import "time"

// Invitation status values. Status is derived from the record at query
// time, never stored.
const (
	InviteStatusPending = "pending"
	InviteStatusUsed    = "used"
	InviteStatusExpired = "expired"
)

// Invite is one invitation record. An empty Email means an open invitation
// redeemable by anyone; a nil ExpiresAt means the invitation never expires.
type Invite struct {
	ID        int64
	Token     string
	Role      string
	Email     string
	ExpiresAt *time.Time
	UsedAt    *time.Time
	CreatedBy *int64
	CreatedAt time.Time

	// Status is filled by list operations via StatusAt; it is not a column.
	Status string
}

// StatusAt derives the invitation status at the given instant. A used
// invitation stays "used" even after its expiry passes.
func (i *Invite) StatusAt(now time.Time) string {
	if i.UsedAt != nil {
		return InviteStatusUsed
	}
	if i.ExpiresAt != nil && i.ExpiresAt.Before(now) {
		return InviteStatusExpired
	}
	return InviteStatusPending
}
