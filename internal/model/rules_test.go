package model

import (
	"encoding/json"
	"testing"
)

func lostItem(owner string, founders ...string) Item {
	return Item{Kind: KindLost, ItemID: "l1", UserID: owner, Claimants: founders}
}

func TestIsOwner(t *testing.T) {
	item := lostItem("u1")

	if !IsOwner(item, "u1") {
		t.Error("expected u1 to be owner")
	}
	if IsOwner(item, "u2") {
		t.Error("expected u2 not to be owner")
	}
	if IsOwner(item, "") {
		t.Error("empty viewer must never be owner")
	}
}

func TestHasClaimedBothVariants(t *testing.T) {
	// The two wire shapes use different claimant field names; check that
	// both decode into the list HasClaimed consults.
	var lost LostItem
	if err := json.Unmarshal([]byte(`{"itemId":"l1","userId":"u1","founderUserIds":["u2","u3"]}`), &lost); err != nil {
		t.Fatalf("unmarshal lost item: %v", err)
	}
	var found FoundItem
	if err := json.Unmarshal([]byte(`{"itemId":"f1","userId":"u1","claimerUserIds":["u4"]}`), &found); err != nil {
		t.Fatalf("unmarshal found item: %v", err)
	}

	if !HasClaimed(lost.Item(), "u2") {
		t.Error("expected u2 to have claimed lost item")
	}
	if HasClaimed(lost.Item(), "u4") {
		t.Error("u4 has no claim on the lost item")
	}
	if !HasClaimed(found.Item(), "u4") {
		t.Error("expected u4 to have claimed found item")
	}
	if HasClaimed(found.Item(), "u2") {
		t.Error("u2 has no claim on the found item")
	}
	if HasClaimed(lost.Item(), "") {
		t.Error("empty viewer must never have claimed")
	}
}

func TestAvailableAction(t *testing.T) {
	item := lostItem("owner", "claimant")

	tests := []struct {
		name          string
		viewerID      string
		authenticated bool
		want          Action
	}{
		{"owner", "owner", true, ActionManage},
		{"anonymous", "", false, ActionMustSignIn},
		{"existing claimant", "claimant", true, ActionAlreadyClaimed},
		{"other user", "stranger", true, ActionCanClaim},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AvailableAction(item, tt.viewerID, tt.authenticated)
			if got != tt.want {
				t.Errorf("AvailableAction(%q, auth=%v) = %q, want %q", tt.viewerID, tt.authenticated, got, tt.want)
			}
		})
	}
}

func TestAvailableActionExactlyOne(t *testing.T) {
	// Every combination of viewer/auth state must land on exactly one of the
	// four actions.
	items := []Item{
		lostItem("owner"),
		lostItem("owner", "claimant"),
		{Kind: KindFound, ItemID: "f1", UserID: "owner", Claimants: []string{"claimant"}},
	}
	viewers := []struct {
		id   string
		auth bool
	}{
		{"", false}, {"owner", true}, {"claimant", true}, {"stranger", true},
	}

	known := map[Action]bool{
		ActionManage: true, ActionAlreadyClaimed: true,
		ActionMustSignIn: true, ActionCanClaim: true,
	}
	for _, item := range items {
		for _, v := range viewers {
			got := AvailableAction(item, v.id, v.auth)
			if !known[got] {
				t.Errorf("AvailableAction(%q) returned unknown action %q", v.id, got)
			}
		}
	}
}

func TestItemViewNullableLocation(t *testing.T) {
	var lost LostItem
	if err := json.Unmarshal([]byte(`{"itemId":"l1","lostLocation":null,"lostDate":"2025-03-01T10:00:00Z"}`), &lost); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	view := lost.Item()
	if view.Location != "" {
		t.Errorf("expected empty location for null, got %q", view.Location)
	}
	if view.Kind != KindLost {
		t.Errorf("expected kind lost, got %q", view.Kind)
	}
	if view.Date != "2025-03-01T10:00:00Z" {
		t.Errorf("unexpected date %q", view.Date)
	}
}
