package model

// Kind distinguishes the two item variants the remote service stores in
// separate collections.
type Kind string

const (
	KindLost  Kind = "lost"
	KindFound Kind = "found"
)

// Valid reports whether k names a known item variant.
func (k Kind) Valid() bool {
	return k == KindLost || k == KindFound
}

// LostItem mirrors the remote service's lost-item records. A lost item is a
// report that something went missing; founderUserIds collects users claiming
// to have found it.
type LostItem struct {
	ItemID         string   `json:"itemId"`
	UserID         string   `json:"userId"`
	ItemName       string   `json:"itemName"`
	Description    string   `json:"description"`
	LostLocation   *string  `json:"lostLocation"`
	LostDate       string   `json:"lostDate"`
	ImageURL       string   `json:"imageUrl"`
	FounderUserIDs []string `json:"founderUserIds"`
}

// FoundItem mirrors the remote service's found-item records. A found item is
// a report that something was picked up; claimerUserIds collects users
// claiming to own it.
type FoundItem struct {
	ItemID         string   `json:"itemId"`
	UserID         string   `json:"userId"`
	ItemName       string   `json:"itemName"`
	Description    string   `json:"description"`
	FoundLocation  *string  `json:"foundLocation"`
	FoundDate      string   `json:"foundDate"`
	ImageURL       string   `json:"imageUrl"`
	ClaimerUserIDs []string `json:"claimerUserIds"`
}

// Item is the variant-tagged view the rest of the app works with. The two
// wire shapes differ only in the names of their location/date/claimant
// fields, so they collapse into one struct plus a Kind tag.
type Item struct {
	Kind        Kind
	ItemID      string
	UserID      string
	ItemName    string
	Description string
	Location    string // empty when the reporter left it out
	Date        string // ISO-8601, as received from the service
	ImageURL    string
	Claimants   []string
}

// Item converts a lost-item record to the tagged view.
func (l LostItem) Item() Item {
	return Item{
		Kind:        KindLost,
		ItemID:      l.ItemID,
		UserID:      l.UserID,
		ItemName:    l.ItemName,
		Description: l.Description,
		Location:    deref(l.LostLocation),
		Date:        l.LostDate,
		ImageURL:    l.ImageURL,
		Claimants:   l.FounderUserIDs,
	}
}

// Item converts a found-item record to the tagged view.
func (f FoundItem) Item() Item {
	return Item{
		Kind:        KindFound,
		ItemID:      f.ItemID,
		UserID:      f.UserID,
		ItemName:    f.ItemName,
		Description: f.Description,
		Location:    deref(f.FoundLocation),
		Date:        f.FoundDate,
		ImageURL:    f.ImageURL,
		Claimants:   f.ClaimerUserIDs,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
