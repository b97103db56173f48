package services

import (
	"math"
	"sort"
	"strings"

	"github.com/codyseavey/chocobo-tracker/internal/models"
)

// Progress counts found cards against the fixed print run
func Progress(cards []models.Card) models.Progress {
	found := 0
	for i := range cards {
		if cards[i].Found {
			found++
		}
	}
	return models.Progress{Found: found, Total: models.TotalCards}
}

// MostRecentFind returns the found card with the latest dateFound, or nil.
// Ties keep the card that appears first.
func MostRecentFind(cards []models.Card) *models.Card {
	var latest *models.Card
	var latestDate int64
	for i := range cards {
		c := &cards[i]
		if !c.Found || c.DateFound == "" {
			continue
		}
		t, ok := models.ParseDate(c.DateFound)
		if !ok {
			continue
		}
		if latest == nil || t.Unix() > latestDate {
			latest = c
			latestDate = t.Unix()
		}
	}
	if latest == nil {
		return nil
	}
	card := *latest
	return &card
}

// ParseViewOptions applies defaults and rejects unknown filters or orders
func ParseViewOptions(search, status, sortOrder string) (models.ViewOptions, error) {
	opts := models.ViewOptions{
		Search: strings.TrimSpace(search),
		Status: models.StatusFilter(strings.TrimSpace(status)),
		Sort:   models.SortOrder(strings.TrimSpace(sortOrder)),
	}
	if opts.Status == "" {
		opts.Status = models.StatusAll
	}
	if opts.Sort == "" {
		opts.Sort = models.SortIDAsc
	}

	validStatus := false
	for _, s := range models.AllStatusFilters() {
		if s == opts.Status {
			validStatus = true
		}
	}
	if !validStatus {
		return opts, invalid("unknown status filter %q", opts.Status)
	}

	validSort := false
	for _, s := range models.AllSortOrders() {
		if s == opts.Sort {
			validSort = true
		}
	}
	if !validSort {
		return opts, invalid("unknown sort order %q", opts.Sort)
	}
	return opts, nil
}

// FilterCards returns a new slice with the cards matching opts, ordered by
// opts.Sort. The input is not modified. Equal keys keep input order.
func FilterCards(cards []models.Card, opts models.ViewOptions) []models.Card {
	out := make([]models.Card, 0, len(cards))
	for _, c := range cards {
		if matchesFilter(c, opts) {
			out = append(out, c)
		}
	}
	sortCards(out, opts.Sort)
	return out
}

// BuildView filters and sorts cards and adds the headline numbers, which
// always describe the whole collection
func BuildView(cards []models.Card, opts models.ViewOptions) models.CollectionView {
	return models.CollectionView{
		Cards:    FilterCards(cards, opts),
		Progress: Progress(cards),
		LastFind: MostRecentFind(cards),
	}
}

func matchesFilter(c models.Card, opts models.ViewOptions) bool {
	if !strings.Contains(models.PaddedID(c.ID), opts.Search) {
		return false
	}
	switch opts.Status {
	case models.StatusFound:
		return c.Found
	case models.StatusNotFound:
		return !c.Found
	default:
		return true
	}
}

func sortCards(cards []models.Card, order models.SortOrder) {
	var less func(a, b *models.Card) bool

	switch order {
	case models.SortIDDesc:
		less = func(a, b *models.Card) bool { return a.ID > b.ID }
	case models.SortPriceAsc:
		// Missing prices count as +Inf so they sort last
		less = func(a, b *models.Card) bool { return priceOr(a, math.Inf(1)) < priceOr(b, math.Inf(1)) }
	case models.SortPriceDesc:
		// Missing prices count as -1 so they sort last
		less = func(a, b *models.Card) bool { return priceOr(a, -1) > priceOr(b, -1) }
	case models.SortDateAsc:
		less = func(a, b *models.Card) bool {
			return models.DateOrEpoch(a.DateFound).Before(models.DateOrEpoch(b.DateFound))
		}
	case models.SortDateDesc:
		less = func(a, b *models.Card) bool {
			return models.DateOrEpoch(a.DateFound).After(models.DateOrEpoch(b.DateFound))
		}
	default:
		less = func(a, b *models.Card) bool { return a.ID < b.ID }
	}

	sort.SliceStable(cards, func(i, j int) bool {
		return less(&cards[i], &cards[j])
	})
}

func priceOr(c *models.Card, missing float64) float64 {
	if c.Price == nil {
		return missing
	}
	return *c.Price
}
