package services

import (
	"sort"

	"github.com/codyseavey/chocobo-tracker/internal/models"
)

// addPriceEntry records entry in the card's history, keeps the history
// newest-first by date and makes the current price follow the newest entry.
// The new entry is placed ahead of existing entries with the same date.
func addPriceEntry(card *models.Card, entry models.PriceHistoryEntry) {
	history := make([]models.PriceHistoryEntry, 0, len(card.PriceHistory)+1)
	history = append(history, entry)
	history = append(history, card.PriceHistory...)

	sortHistory(history)
	card.PriceHistory = history

	latest := history[0]
	card.Price = models.Float64(latest.PriceValue())
	card.PriceDate = latest.Date
}

// sortHistory orders entries by date descending. Entries with equal or
// unparseable dates keep their relative order.
func sortHistory(history []models.PriceHistoryEntry) {
	sort.SliceStable(history, func(i, j int) bool {
		return models.DateOrEpoch(history[i].Date).After(models.DateOrEpoch(history[j].Date))
	})
}
