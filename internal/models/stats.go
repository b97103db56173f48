package models

// PriceRange is one bucket of the sale price distribution
type PriceRange struct {
	Label string   `json:"label"`
	Min   float64  `json:"min"`
	Max   *float64 `json:"max,omitempty"` // exclusive; nil for the open-ended top bucket
	Count int      `json:"count"`
}

// MonthCount is the number of finds in a YYYY-MM month
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// GradingSummary aggregates grading across found cards
type GradingSummary struct {
	Count        int            `json:"count"`
	AverageGrade float64        `json:"averageGrade"`
	ByGrade      map[string]int `json:"byGrade"`
	ByService    map[string]int `json:"byService"`
}

// FinderCount is the number of cards credited to one finder
type FinderCount struct {
	FoundBy string `json:"foundBy"`
	Count   int    `json:"count"`
}

// RecentFind is a condensed card for the recent discoveries list
type RecentFind struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	FoundBy   string   `json:"foundBy,omitempty"`
	DateFound string   `json:"dateFound"`
	Link      string   `json:"link,omitempty"`
	Price     *float64 `json:"price,omitempty"`
}

// CollectionStats is the statistics rollup over found cards
type CollectionStats struct {
	TotalCards   int            `json:"totalCards"`
	FoundCount   int            `json:"foundCount"`
	PricedCount  int            `json:"pricedCount"`
	AveragePrice float64        `json:"averagePrice"`
	MinPrice     float64        `json:"minPrice"`
	MaxPrice     float64        `json:"maxPrice"`
	TotalValue   float64        `json:"totalValue"`
	PriceRanges  []PriceRange   `json:"priceRanges"`
	FindsByMonth []MonthCount   `json:"findsByMonth"`
	Grading      GradingSummary `json:"grading"`
	TopFinders   []FinderCount  `json:"topFinders"`
	RecentFinds  []RecentFind   `json:"recentFinds"`
}
