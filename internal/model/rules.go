package model

import "slices"

// Action is what the current viewer may do with an item. Exactly one action
// applies to any (item, viewer) pair.
type Action string

const (
	// ActionManage: the viewer owns the report and may delete it or mark it
	// resolved (both are the same remote deletion, labelled differently).
	ActionManage Action = "manage"
	// ActionAlreadyClaimed: the viewer has a claim on record for this item.
	ActionAlreadyClaimed Action = "claimed"
	// ActionMustSignIn: claiming requires authentication.
	ActionMustSignIn Action = "signin"
	// ActionCanClaim: the viewer may submit a claim.
	ActionCanClaim Action = "claim"
)

// IsOwner reports whether viewerID created the item report. Ownership is
// always recomputed locally from the item's userId rather than trusted from
// any server-provided flag. An empty viewerID is never an owner.
func IsOwner(item Item, viewerID string) bool {
	return viewerID != "" && item.UserID == viewerID
}

// HasClaimed reports whether viewerID already appears in the item's claimant
// list (founders for lost items, claimers for found items). Repeated claims
// by the same user are treated as membership, not count.
func HasClaimed(item Item, viewerID string) bool {
	if viewerID == "" {
		return false
	}
	return slices.Contains(item.Claimants, viewerID)
}

// AvailableAction decides the single action available to the viewer. The
// cases are mutually exclusive by construction: an unauthenticated viewer
// has an empty viewerID and so can be neither owner nor claimant.
func AvailableAction(item Item, viewerID string, authenticated bool) Action {
	switch {
	case IsOwner(item, viewerID):
		return ActionManage
	case !authenticated:
		return ActionMustSignIn
	case HasClaimed(item, viewerID):
		return ActionAlreadyClaimed
	default:
		return ActionCanClaim
	}
}
