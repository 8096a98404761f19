package models

import "time"

// ItemKind distinguishes lost reports from found reports.
type ItemKind string

const (
	KindLost  ItemKind = "lost"
	KindFound ItemKind = "found"
)

// Opposite returns the kind an item of this kind is matched against.
func (k ItemKind) Opposite() ItemKind {
	if k == KindLost {
		return KindFound
	}
	return KindLost
}

// ItemStatus is the report lifecycle state. Only active items participate
// in matching.
type ItemStatus string

const (
	ItemActive   ItemStatus = "active"
	ItemMatched  ItemStatus = "matched"
	ItemResolved ItemStatus = "resolved"
	ItemExpired  ItemStatus = "expired"
	ItemRemoved  ItemStatus = "removed"
)

// ItemCategory is the fixed category set reports are filed under.
type ItemCategory string

const (
	CategoryElectronics ItemCategory = "electronics"
	CategoryJewelry     ItemCategory = "jewelry"
	CategoryClothing    ItemCategory = "clothing"
	CategoryBags        ItemCategory = "bags"
	CategoryDocuments   ItemCategory = "documents"
	CategoryKeys        ItemCategory = "keys"
	CategoryPets        ItemCategory = "pets"
	CategoryVehicles    ItemCategory = "vehicles"
	CategorySports      ItemCategory = "sports"
	CategoryBooks       ItemCategory = "books"
	CategoryToys        ItemCategory = "toys"
	CategoryOther       ItemCategory = "other"
)

// Categories lists every valid category.
var Categories = []ItemCategory{
	CategoryElectronics, CategoryJewelry, CategoryClothing, CategoryBags,
	CategoryDocuments, CategoryKeys, CategoryPets, CategoryVehicles,
	CategorySports, CategoryBooks, CategoryToys, CategoryOther,
}

// Valid reports whether c is a member of the fixed category set.
func (c ItemCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Item is a lost or found report. Immutable once scored; owned by the
// record store.
type Item struct {
	ID           string       `json:"id" db:"id"`
	Kind         ItemKind     `json:"kind" db:"kind"`
	Category     ItemCategory `json:"category" db:"category"`
	Title        string       `json:"title" db:"title"`
	Description  string       `json:"description" db:"description"`
	Tags         []string     `json:"tags" db:"tags"`
	LocationName string       `json:"location_name" db:"location_name"`
	Lat          *float64     `json:"lat,omitempty" db:"lat"`
	Lng          *float64     `json:"lng,omitempty" db:"lng"`
	Status       ItemStatus   `json:"status" db:"status"`
	CreatedAt    *time.Time   `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt    *time.Time   `json:"updated_at,omitempty" db:"updated_at"`
}

// HasCoordinates reports whether the report carries a resolved lat/lng pair.
func (i Item) HasCoordinates() bool {
	return i.Lat != nil && i.Lng != nil
}
