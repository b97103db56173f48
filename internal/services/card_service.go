package services

import (
	"context"
	"log"
	"math"
	"strings"

	"github.com/codyseavey/chocobo-tracker/internal/metrics"
	"github.com/codyseavey/chocobo-tracker/internal/models"
)

// Mutation operation names, used for metrics and logs
const (
	OpReportFind      = "report_find"
	OpUpdatePrice     = "update_price"
	OpAddPriceHistory = "add_price_history"
	OpUpdateGrading   = "update_grading"
	OpUpdateImage     = "update_image"
)

// FindReport is the data supplied when a card's discovery is reported
type FindReport struct {
	FoundBy   string
	DateFound string
	Link      string
}

// CardService applies single-card mutations as a whole-collection
// read-modify-write. Concurrent mutations are not coordinated: two writes
// racing on the same snapshot lose one of the updates.
type CardService struct {
	store *CollectionStore
}

func NewCardService(store *CollectionStore) *CardService {
	return &CardService{store: store}
}

// GetCollection returns the full collection
func (s *CardService) GetCollection(ctx context.Context) ([]models.Card, error) {
	return s.store.GetCollection(ctx)
}

// GetCard returns a single card by id
func (s *CardService) GetCard(ctx context.Context, id int) (*models.Card, error) {
	cards, err := s.store.GetCollection(ctx)
	if err != nil {
		return nil, err
	}
	idx := findCard(cards, id)
	if idx < 0 {
		return nil, &NotFoundError{CardID: id}
	}
	card := cards[idx]
	return &card, nil
}

// ReportFind marks a card found. Price, grading and image are untouched.
func (s *CardService) ReportFind(ctx context.Context, id int, report FindReport) (*models.Card, error) {
	report.FoundBy = strings.TrimSpace(report.FoundBy)
	report.DateFound = strings.TrimSpace(report.DateFound)
	report.Link = strings.TrimSpace(report.Link)

	if err := requireID(id); err != nil {
		return nil, s.record(OpReportFind, err)
	}
	if report.FoundBy == "" || report.DateFound == "" || report.Link == "" {
		return nil, s.record(OpReportFind, invalid("foundBy, dateFound and link are required"))
	}
	if _, ok := models.ParseDate(report.DateFound); !ok {
		return nil, s.record(OpReportFind, invalid("dateFound %q is not a valid date", report.DateFound))
	}
	if !validHTTPURL(report.Link) {
		return nil, s.record(OpReportFind, invalid("link must be an http or https URL"))
	}

	return s.mutate(ctx, OpReportFind, id, func(card *models.Card) {
		card.Found = true
		card.FoundBy = report.FoundBy
		card.DateFound = report.DateFound
		card.Link = report.Link
	})
}

// UpdateCurrentPrice records a sale at price dated today. The current price
// follows the newest history entry, so a future-dated entry still wins.
func (s *CardService) UpdateCurrentPrice(ctx context.Context, id int, price *float64) (*models.Card, error) {
	if err := requireID(id); err != nil {
		return nil, s.record(OpUpdatePrice, err)
	}
	if err := checkPrice(price); err != nil {
		return nil, s.record(OpUpdatePrice, err)
	}

	entry := models.PriceHistoryEntry{
		Price: models.Float64(*price),
		Date:  models.Today(),
	}
	return s.mutate(ctx, OpUpdatePrice, id, func(card *models.Card) {
		addPriceEntry(card, entry)
	})
}

// AddPriceHistoryEntry records a dated sale and sets the current price from
// the newest entry in the resulting history
func (s *CardService) AddPriceHistoryEntry(ctx context.Context, id int, entry *models.PriceHistoryEntry) (*models.Card, error) {
	if err := requireID(id); err != nil {
		return nil, s.record(OpAddPriceHistory, err)
	}
	if entry == nil {
		return nil, s.record(OpAddPriceHistory, invalid("Missing required fields"))
	}

	e := *entry
	e.Date = strings.TrimSpace(e.Date)
	e.SoldBy = strings.TrimSpace(e.SoldBy)
	e.SoldTo = strings.TrimSpace(e.SoldTo)
	if err := validate.Struct(e); err != nil {
		return nil, s.record(OpAddPriceHistory, invalid("%s", validationMessage(err)))
	}
	if err := checkPrice(e.Price); err != nil {
		return nil, s.record(OpAddPriceHistory, err)
	}
	e.Price = models.Float64(*e.Price)

	return s.mutate(ctx, OpAddPriceHistory, id, func(card *models.Card) {
		addPriceEntry(card, e)
	})
}

// UpdateGrading replaces the card's grading. The grade may arrive as a
// numeric string and is stored as a number.
func (s *CardService) UpdateGrading(ctx context.Context, id int, input *models.GradingInput) (*models.Card, error) {
	if err := requireID(id); err != nil {
		return nil, s.record(OpUpdateGrading, err)
	}
	if input == nil || strings.TrimSpace(input.Service) == "" || !input.Grade.Present {
		return nil, s.record(OpUpdateGrading, invalid("Missing required fields"))
	}
	if !input.Grade.Valid || input.Grade.Value < 0 {
		return nil, s.record(OpUpdateGrading, invalid("Invalid grade value"))
	}

	dateGraded := strings.TrimSpace(input.DateGraded)
	if dateGraded == "" {
		dateGraded = models.Today()
	}
	grading := &models.GradingInfo{
		Service:    strings.TrimSpace(input.Service),
		Grade:      input.Grade.Value,
		DateGraded: dateGraded,
	}

	return s.mutate(ctx, OpUpdateGrading, id, func(card *models.Card) {
		card.Grading = grading
	})
}

// UpdateImage replaces the card image with an absolute URL or a
// root-relative path
func (s *CardService) UpdateImage(ctx context.Context, id int, imageURL string) (*models.Card, error) {
	imageURL = strings.TrimSpace(imageURL)

	if err := requireID(id); err != nil {
		return nil, s.record(OpUpdateImage, err)
	}
	if imageURL == "" {
		return nil, s.record(OpUpdateImage, invalid("imageUrl is required"))
	}
	if !validImageRef(imageURL) {
		return nil, s.record(OpUpdateImage, invalid("imageUrl must be an http(s) URL or a path starting with /"))
	}

	return s.mutate(ctx, OpUpdateImage, id, func(card *models.Card) {
		card.Image = imageURL
	})
}

// mutate loads the collection, applies fn to the first card with id and
// writes the whole collection back
func (s *CardService) mutate(ctx context.Context, op string, id int, fn func(card *models.Card)) (*models.Card, error) {
	cards, err := s.store.GetCollection(ctx)
	if err != nil {
		return nil, s.record(op, err)
	}

	idx := findCard(cards, id)
	if idx < 0 {
		return nil, s.record(op, &NotFoundError{CardID: id})
	}

	fn(&cards[idx])

	if err := s.store.SaveCollection(ctx, cards); err != nil {
		return nil, s.record(op, err)
	}

	metrics.UpdateCollectionMetrics(cards)
	s.record(op, nil)
	log.Printf("Card service: %s applied to card #%s", op, models.PaddedID(id))

	card := cards[idx]
	return &card, nil
}

// record counts the outcome of a mutation and passes err through
func (s *CardService) record(op string, err error) error {
	result := "ok"
	switch {
	case err == nil:
	case IsValidation(err):
		result = "invalid"
	case IsNotFound(err):
		result = "not_found"
	default:
		result = "store_error"
		log.Printf("Card service: %s failed: %v", op, err)
	}
	metrics.CardMutationsTotal.WithLabelValues(op, result).Inc()
	return err
}

// findCard returns the index of the first card with id, or -1
func findCard(cards []models.Card, id int) int {
	for i := range cards {
		if cards[i].ID == id {
			return i
		}
	}
	return -1
}

func requireID(id int) error {
	if id == 0 {
		return invalid("cardId is required")
	}
	return nil
}

func checkPrice(price *float64) error {
	if price == nil {
		return invalid("price is required")
	}
	if math.IsNaN(*price) || math.IsInf(*price, 0) || *price < 0 {
		return invalid("Invalid price value")
	}
	return nil
}
