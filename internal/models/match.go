package models

import "time"

// MatchStatus is the review lifecycle of a candidate match.
type MatchStatus string

const (
	MatchPending   MatchStatus = "pending"
	MatchConfirmed MatchStatus = "confirmed"
	MatchRejected  MatchStatus = "rejected"
	MatchContacted MatchStatus = "contacted"
)

// Valid reports whether s is a known match status.
func (s MatchStatus) Valid() bool {
	switch s {
	case MatchPending, MatchConfirmed, MatchRejected, MatchContacted:
		return true
	}
	return false
}

// Match is a candidate correspondence between exactly one lost and one
// found item. Finder results are transient (ID and timestamps empty);
// the store assigns identity when a match is persisted. At most one
// stored match may exist per (lost, found) pair.
type Match struct {
	ID            string      `json:"id,omitempty" db:"id"`
	LostItemID    string      `json:"lost_item_id" db:"lost_item_id"`
	FoundItemID   string      `json:"found_item_id" db:"found_item_id"`
	Similarity    float64     `json:"similarity" db:"similarity"`
	MatchedFields []string    `json:"matched_fields" db:"matched_fields"`
	Status        MatchStatus `json:"status" db:"status"`
	Notes         *string     `json:"notes,omitempty" db:"notes"`
	CreatedAt     *time.Time  `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt     *time.Time  `json:"updated_at,omitempty" db:"updated_at"`
}

// Links reports whether the match references itemID in either role.
func (m Match) Links(itemID string) bool {
	return m.LostItemID == itemID || m.FoundItemID == itemID
}

// MatchWithItems is a match joined with both referenced reports, for
// review surfaces that show the full pair.
type MatchWithItems struct {
	Match     Match `json:"match"`
	LostItem  Item  `json:"lost_item"`
	FoundItem Item  `json:"found_item"`
}
