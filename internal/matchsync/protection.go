package matchsync

// Identity is how one connection identifies itself when submitting an
// action: an ephemeral per-browser UUID, optionally upgraded to an
// authenticated user id. Grounded on protection/mod.rs's SocketIdentity.
type Identity struct {
	UUID   string
	UserID string // empty when the connection is anonymous
}

// ControlLevel is the result of testing an Identity against a side's lock.
type ControlLevel uint8

const (
	// Unlocked: no one controls this side yet; any identity may take it.
	Unlocked ControlLevel = iota
	// LockedByYou: the tested identity controls this side.
	LockedByYou
	// LockedByOther: a different identity controls this side.
	LockedByOther
)

// CanControlOrTakeOver reports whether the tested identity may act.
func (c ControlLevel) CanControlOrTakeOver() bool {
	return c == Unlocked || c == LockedByYou
}

// String renders the control level for wire serialization.
func (c ControlLevel) String() string {
	switch c {
	case Unlocked:
		return "Unlocked"
	case LockedByYou:
		return "LockedByYou"
	default:
		return "LockedByOther"
	}
}

// MarshalJSON renders the control level as its wire string.
func (c ControlLevel) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// sideLockKind tags SideProtection.
type sideLockKind uint8

const (
	lockUnlocked sideLockKind = iota
	lockUUID
	lockUser
)

// SideProtection is one color's ownership lock: Unlocked, UuidLock(anon_id),
// or UserLock(user_id). Grounded on protection/mod.rs's SideProtection enum.
type SideProtection struct {
	kind sideLockKind
	uuid string
	user string
}

// ForIdentity builds the lock that results from the given identity taking
// an unlocked side: a UserLock if the identity is authenticated, else a
// UuidLock.
func ForIdentity(id Identity) SideProtection {
	if id.UserID != "" {
		return SideProtection{kind: lockUser, user: id.UserID}
	}
	return SideProtection{kind: lockUUID, uuid: id.UUID}
}

// ForUser builds a lock already bound to a persisted owner, or an Unlocked
// side if player is empty.
func ForUser(player string) SideProtection {
	if player == "" {
		return SideProtection{kind: lockUnlocked}
	}
	return SideProtection{kind: lockUser, user: player}
}

// User returns the persisted owning user, if this side is UserLock'd.
func (p SideProtection) User() (string, bool) {
	if p.kind == lockUser {
		return p.user, true
	}
	return "", false
}

// Test checks whether id may act on this side without mutating the lock.
func (p SideProtection) Test(id Identity) ControlLevel {
	switch p.kind {
	case lockUnlocked:
		return Unlocked
	case lockUUID:
		if p.uuid == id.UUID {
			return LockedByYou
		}
		return LockedByOther
	case lockUser:
		if id.UserID != "" && id.UserID == p.user {
			return LockedByYou
		}
		return LockedByOther
	default:
		return LockedByOther
	}
}

// TestAndAssign checks whether id may act on this side, assigning or
// upgrading the lock as a side effect: an Unlocked side is claimed by id
// (preferring UserLock); a UuidLock upgrades to UserLock the first time the
// same uuid presents an authenticated user id. Reports whether the action
// is allowed, and whether a UserLock was newly established (the persisted
// owner field needs to be updated when it was); claiming an Unlocked side
// with a UuidLock reports changed=false.
func (p *SideProtection) TestAndAssign(id Identity) (allowed, changed bool) {
	switch p.kind {
	case lockUnlocked:
		*p = ForIdentity(id)
		return true, p.kind == lockUser
	case lockUUID:
		if p.uuid != id.UUID {
			return false, false
		}
		if id.UserID != "" {
			p.kind = lockUser
			p.user = id.UserID
			p.uuid = ""
			return true, true
		}
		return true, false
	case lockUser:
		return id.UserID != "" && id.UserID == p.user, false
	default:
		return false, false
	}
}
