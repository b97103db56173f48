package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"sort"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/codyseavey/chocobo-tracker/internal/metrics"
	"github.com/codyseavey/chocobo-tracker/internal/models"
)

const (
	statsCacheSize  = 32
	topFindersLimit = 10
	recentLimit     = 10
)

// priceBuckets are the sale price ranges shown on the stats page. Upper
// bounds are exclusive; the last bucket is open-ended.
var priceBuckets = []struct {
	label string
	min   float64
	max   float64
}{
	{"<10k", 0, 10000},
	{"10k-25k", 10000, 25000},
	{"25k-50k", 25000, 50000},
	{"50k-100k", 50000, 100000},
	{"100k+", 100000, 0},
}

// StatsService computes the statistics rollup over found cards
type StatsService struct {
	cache *lru.Cache[string, models.CollectionStats] // collection hash -> rollup
}

func NewStatsService() *StatsService {
	cache, err := lru.New[string, models.CollectionStats](statsCacheSize)
	if err != nil {
		log.Printf("Failed to create stats cache: %v", err)
	}
	return &StatsService{cache: cache}
}

// Compute returns the rollup for cards, reusing a cached result when the
// collection content is unchanged
func (s *StatsService) Compute(cards []models.Card) models.CollectionStats {
	metrics.UpdateCollectionMetrics(cards)

	key, ok := collectionHash(cards)
	if ok && s.cache != nil {
		if stats, hit := s.cache.Get(key); hit {
			metrics.StatsCacheHits.Inc()
			return stats
		}
	}
	metrics.StatsCacheMisses.Inc()

	stats := ComputeStats(cards)
	if ok && s.cache != nil {
		s.cache.Add(key, stats)
	}
	return stats
}

// ComputeStats builds the rollup without caching. An empty found set yields
// zeroed aggregates.
func ComputeStats(cards []models.Card) models.CollectionStats {
	stats := models.CollectionStats{
		TotalCards:   models.TotalCards,
		PriceRanges:  make([]models.PriceRange, len(priceBuckets)),
		FindsByMonth: []models.MonthCount{},
		Grading: models.GradingSummary{
			ByGrade:   map[string]int{},
			ByService: map[string]int{},
		},
		TopFinders:  []models.FinderCount{},
		RecentFinds: []models.RecentFind{},
	}
	for i, b := range priceBuckets {
		stats.PriceRanges[i] = models.PriceRange{Label: b.label, Min: b.min}
		if b.max > 0 {
			stats.PriceRanges[i].Max = models.Float64(b.max)
		}
	}

	var found []models.Card
	for _, c := range cards {
		if c.Found {
			found = append(found, c)
		}
	}
	stats.FoundCount = len(found)

	priceStats(&stats, found)
	stats.FindsByMonth = findsByMonth(found)
	stats.Grading = gradingSummary(found)
	stats.TopFinders = topFinders(found)
	stats.RecentFinds = recentFinds(found)
	return stats
}

func priceStats(stats *models.CollectionStats, found []models.Card) {
	for _, c := range found {
		if c.Price == nil {
			continue
		}
		p := *c.Price
		if stats.PricedCount == 0 || p < stats.MinPrice {
			stats.MinPrice = p
		}
		if stats.PricedCount == 0 || p > stats.MaxPrice {
			stats.MaxPrice = p
		}
		stats.PricedCount++
		stats.TotalValue += p
		stats.PriceRanges[bucketFor(p)].Count++
	}
	if stats.PricedCount > 0 {
		stats.AveragePrice = stats.TotalValue / float64(stats.PricedCount)
	}
}

func bucketFor(price float64) int {
	for i, b := range priceBuckets {
		if b.max == 0 || price < b.max {
			return i
		}
	}
	return len(priceBuckets) - 1
}

func findsByMonth(found []models.Card) []models.MonthCount {
	counts := make(map[string]int)
	for _, c := range found {
		if month, ok := models.MonthKey(c.DateFound); ok {
			counts[month]++
		}
	}

	months := make([]models.MonthCount, 0, len(counts))
	for month, count := range counts {
		months = append(months, models.MonthCount{Month: month, Count: count})
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	return months
}

func gradingSummary(found []models.Card) models.GradingSummary {
	summary := models.GradingSummary{
		ByGrade:   map[string]int{},
		ByService: map[string]int{},
	}

	total := 0.0
	for _, c := range found {
		if c.Grading == nil {
			continue
		}
		summary.Count++
		total += c.Grading.Grade
		summary.ByGrade[strconv.FormatFloat(c.Grading.Grade, 'f', -1, 64)]++
		summary.ByService[c.Grading.Service]++
	}
	if summary.Count > 0 {
		summary.AverageGrade = total / float64(summary.Count)
	}
	return summary
}

func topFinders(found []models.Card) []models.FinderCount {
	var finders []models.FinderCount
	index := make(map[string]int)
	for _, c := range found {
		if c.FoundBy == "" {
			continue
		}
		if i, ok := index[c.FoundBy]; ok {
			finders[i].Count++
			continue
		}
		index[c.FoundBy] = len(finders)
		finders = append(finders, models.FinderCount{FoundBy: c.FoundBy, Count: 1})
	}

	// Stable keeps first-appearance order among equal counts
	sort.SliceStable(finders, func(i, j int) bool { return finders[i].Count > finders[j].Count })
	if len(finders) > topFindersLimit {
		finders = finders[:topFindersLimit]
	}
	if finders == nil {
		finders = []models.FinderCount{}
	}
	return finders
}

func recentFinds(found []models.Card) []models.RecentFind {
	dated := make([]models.Card, 0, len(found))
	for _, c := range found {
		if c.DateFound != "" {
			dated = append(dated, c)
		}
	}
	sortCards(dated, models.SortDateDesc)
	if len(dated) > recentLimit {
		dated = dated[:recentLimit]
	}

	recent := make([]models.RecentFind, 0, len(dated))
	for _, c := range dated {
		recent = append(recent, models.RecentFind{
			ID:        c.ID,
			Name:      c.Name,
			FoundBy:   c.FoundBy,
			DateFound: c.DateFound,
			Link:      c.Link,
			Price:     c.Price,
		})
	}
	return recent
}

// collectionHash keys the stats cache on the collection content
func collectionHash(cards []models.Card) (string, bool) {
	data, err := json.Marshal(cards)
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), true
}
