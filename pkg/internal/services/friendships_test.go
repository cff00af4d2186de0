package services

import (
	"testing"

	"github.com/amoria/calling/pkg/internal/models"
)

func TestFriendRequestLifecycle(t *testing.T) {
	openTestDatabase(t)
	alice := seedAccount(t, "alice")
	bob := seedAccount(t, "bob")

	if CheckFriendship(alice.ID, bob.ID) {
		t.Fatalf("fresh accounts must not be friends")
	}

	request, err := NewFriendRequest(alice, bob.ID)
	if err != nil {
		t.Fatalf("send request: %v", err)
	}
	if CheckFriendship(alice.ID, bob.ID) {
		t.Fatalf("a pending request is not a friendship")
	}

	if request, err = RespondFriendRequest(request, true); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if request.Status != models.FriendshipAccepted {
		t.Errorf("status: got %d, want accepted", request.Status)
	}

	// Predicate holds for both orders of the pair.
	if !CheckFriendship(alice.ID, bob.ID) || !CheckFriendship(bob.ID, alice.ID) {
		t.Errorf("expected both orders of the pair to be friends")
	}
}

func TestFriendRequestRejectsDuplicates(t *testing.T) {
	openTestDatabase(t)
	alice := seedAccount(t, "alice")
	bob := seedAccount(t, "bob")

	if _, err := NewFriendRequest(alice, alice.ID); err == nil {
		t.Errorf("expected self-request to be rejected")
	}

	if _, err := NewFriendRequest(alice, bob.ID); err != nil {
		t.Fatalf("send request: %v", err)
	}
	if _, err := NewFriendRequest(alice, bob.ID); err == nil {
		t.Errorf("expected duplicate request to be rejected")
	}
	if _, err := NewFriendRequest(bob, alice.ID); err == nil {
		t.Errorf("expected mirrored request to be rejected")
	}
}

func TestFriendRequestResolvedOnlyOnce(t *testing.T) {
	openTestDatabase(t)
	alice := seedAccount(t, "alice")
	bob := seedAccount(t, "bob")

	request, err := NewFriendRequest(alice, bob.ID)
	if err != nil {
		t.Fatalf("send request: %v", err)
	}
	if _, err := RespondFriendRequest(request, false); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if _, err := RespondFriendRequest(request, true); err == nil {
		t.Errorf("expected second response to fail")
	}
	if CheckFriendship(alice.ID, bob.ID) {
		t.Errorf("declined request must not create a friendship")
	}
}

func TestListFriendsMapsCounterpart(t *testing.T) {
	openTestDatabase(t)
	alice, bob := seedFriends(t)

	friends, err := ListFriends(alice)
	if err != nil {
		t.Fatalf("list friends: %v", err)
	}
	if len(friends) != 1 || friends[0].ID != bob.ID {
		t.Fatalf("expected exactly bob, got %+v", friends)
	}

	friends, err = ListFriends(bob)
	if err != nil {
		t.Fatalf("list friends: %v", err)
	}
	if len(friends) != 1 || friends[0].ID != alice.ID {
		t.Fatalf("expected exactly alice, got %+v", friends)
	}
}
