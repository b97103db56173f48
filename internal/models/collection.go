package models

// StatusFilter selects cards by find status
type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusFound    StatusFilter = "found"
	StatusNotFound StatusFilter = "not-found"
)

// SortOrder selects the ordering of a collection view
type SortOrder string

const (
	SortIDAsc     SortOrder = "id-asc"
	SortIDDesc    SortOrder = "id-desc"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortDateAsc   SortOrder = "date-asc"
	SortDateDesc  SortOrder = "date-desc"
)

// AllStatusFilters returns all valid status filters
func AllStatusFilters() []StatusFilter {
	return []StatusFilter{StatusAll, StatusFound, StatusNotFound}
}

// AllSortOrders returns all valid sort orders
func AllSortOrders() []SortOrder {
	return []SortOrder{SortIDAsc, SortIDDesc, SortPriceAsc, SortPriceDesc, SortDateAsc, SortDateDesc}
}

// ViewOptions controls filtering and ordering of a collection view
type ViewOptions struct {
	Search string       `form:"search"`
	Status StatusFilter `form:"status"`
	Sort   SortOrder    `form:"sort"`
}

// Progress is the found/total counter shown on the tracker
type Progress struct {
	Found int `json:"found"`
	Total int `json:"total"`
}

// CollectionView is the filtered, sorted collection plus headline numbers
type CollectionView struct {
	Cards    []Card   `json:"cards"`
	Progress Progress `json:"progress"`
	LastFind *Card    `json:"lastFind,omitempty"`
}
