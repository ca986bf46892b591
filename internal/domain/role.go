package domain

// Role of an authenticated user
type Role string

const (
	RolePlayer Role = "player"
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RolePlayer, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

// Viewer is the user asking for availability
type Viewer struct {
	UserID int64
	Role   Role
}

// ActionsFor returns what the viewer may do with a slot of the given status.
// Only players book, and only on approved courts; only the court's owner blocks and unblocks.
func (v Viewer) ActionsFor(court *Court, status SlotStatus) []SlotAction {
	switch {
	case v.Role == RolePlayer && status == SlotAvailable && court.IsApproved:
		return []SlotAction{ActionBook}
	case v.Role == RoleOwner && court.IsOwnedBy(v.UserID) && status == SlotAvailable:
		return []SlotAction{ActionBlock}
	case v.Role == RoleOwner && court.IsOwnedBy(v.UserID) && status == SlotBlocked:
		return []SlotAction{ActionUnblock}
	}
	return nil
}
