package matchsync

import "testing"

func TestUnlockedAcceptsFirstComer(t *testing.T) {
	var side SideProtection
	u1 := Identity{UUID: "u1"}

	allowed, _ := side.TestAndAssign(u1)
	if !allowed {
		t.Fatalf("expected the first identity to claim the unlocked side")
	}
	if side.Test(u1) != LockedByYou {
		t.Fatalf("expected u1 to control the side after claiming it")
	}
	if side.Test(Identity{UUID: "u2"}) != LockedByOther {
		t.Fatalf("expected a different identity to be locked out")
	}
}

func TestUuidLockUpgradesToUserLock(t *testing.T) {
	var side SideProtection
	u1 := Identity{UUID: "u1"}
	side.TestAndAssign(u1)

	u1Authed := Identity{UUID: "u1", UserID: "alice"}
	allowed, changed := side.TestAndAssign(u1Authed)
	if !allowed || !changed {
		t.Fatalf("expected the uuid lock to upgrade to a user lock")
	}
	if user, ok := side.User(); !ok || user != "alice" {
		t.Fatalf("expected the lock to report alice as the owning user, got %q/%v", user, ok)
	}

	// Anonymous u1 no longer matches once the lock is a user lock.
	allowed, _ = side.TestAndAssign(u1)
	if allowed {
		t.Fatalf("expected the anonymous identity to be rejected after the upgrade")
	}
}

func TestForUserRestoresAPersistedOwner(t *testing.T) {
	side := ForUser("alice")
	if side.Test(Identity{UserID: "alice"}) != LockedByYou {
		t.Fatalf("expected the persisted owner to control the side")
	}
	if side.Test(Identity{UUID: "anonymous"}) != LockedByOther {
		t.Fatalf("expected an anonymous identity to be locked out of a user-owned side")
	}
}
