package models

import (
	"fmt"
)

// TotalCards is the fixed size of the Golden Chocobo print run
const TotalCards = 77

// PriceHistoryEntry is a single recorded sale of a card
type PriceHistoryEntry struct {
	Price  *float64 `json:"price" validate:"required,gte=0"`
	Date   string   `json:"date" validate:"required"`
	SoldBy string   `json:"soldBy,omitempty"`
	SoldTo string   `json:"soldTo,omitempty"`
}

// PriceValue returns the entry price, or 0 when unset
func (e PriceHistoryEntry) PriceValue() float64 {
	if e.Price == nil {
		return 0
	}
	return *e.Price
}

// GradingInfo is a third-party condition certification
type GradingInfo struct {
	Service    string  `json:"service"`
	Grade      float64 `json:"grade"`
	DateGraded string  `json:"dateGraded,omitempty"`
}

// Card is one of the 77 serialized Golden Chocobo cards.
// Field names match the stored JSON document, so existing data keeps decoding.
type Card struct {
	ID           int                 `json:"id"`
	Name         string              `json:"name"`
	Found        bool                `json:"found"`
	FoundBy      string              `json:"foundBy,omitempty"`
	DateFound    string              `json:"dateFound,omitempty"`
	Link         string              `json:"link,omitempty"`
	Image        string              `json:"image,omitempty"`
	Price        *float64            `json:"price,omitempty"`
	PriceDate    string              `json:"priceDate,omitempty"`
	PriceHistory []PriceHistoryEntry `json:"priceHistory"`
	Grading      *GradingInfo        `json:"grading,omitempty"`
}

// PaddedID returns the two-digit serial used in names, image paths and search
func PaddedID(id int) string {
	return fmt.Sprintf("%02d", id)
}

// CardName returns the display name for a card id
func CardName(id int) string {
	return "Golden Chocobo #" + PaddedID(id)
}

// PlaceholderImage returns the deterministic image path for a card id
func PlaceholderImage(id int) string {
	return "/images/chocobo-" + PaddedID(id) + ".jpg"
}

// DisplayImage returns the card image, falling back to the placeholder path
func (c *Card) DisplayImage() string {
	if c.Image != "" {
		return c.Image
	}
	return PlaceholderImage(c.ID)
}

// HasPrice reports whether a current price has been recorded
func (c *Card) HasPrice() bool {
	return c.Price != nil
}

// Normalize forward-fills fields that older documents may lack.
// Cards without a price history get an empty one.
func (c *Card) Normalize() {
	if c.PriceHistory == nil {
		c.PriceHistory = []PriceHistoryEntry{}
	}
	if c.Name == "" && c.ID > 0 {
		c.Name = CardName(c.ID)
	}
}

// SeedCollection builds the initial 77-card collection
func SeedCollection() []Card {
	cards := make([]Card, 0, TotalCards)
	for id := 1; id <= TotalCards; id++ {
		cards = append(cards, Card{
			ID:           id,
			Name:         CardName(id),
			Found:        false,
			Image:        PlaceholderImage(id),
			PriceHistory: []PriceHistoryEntry{},
		})
	}
	return cards
}

// Float64 returns a pointer to v
func Float64(v float64) *float64 {
	return &v
}
