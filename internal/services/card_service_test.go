package services

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/codyseavey/chocobo-tracker/internal/models"
)

func TestReportFind(t *testing.T) {
	svc, store, _ := newTestCardService(t)
	ctx := context.Background()

	card, err := svc.ReportFind(ctx, 12, FindReport{
		FoundBy:   "  cid ",
		DateFound: "2024-02-14",
		Link:      "https://example.com/pull",
	})
	if err != nil {
		t.Fatalf("ReportFind failed: %v", err)
	}
	if !card.Found || card.FoundBy != "cid" || card.DateFound != "2024-02-14" {
		t.Errorf("Unexpected card: %+v", card)
	}
	if card.Image != models.PlaceholderImage(12) {
		t.Errorf("Image should be untouched, got %q", card.Image)
	}

	stored := mustCollection(t, store)
	if diff := cmp.Diff(*card, stored[11]); diff != "" {
		t.Errorf("Stored card differs (-returned +stored):\n%s", diff)
	}
}

func TestReportFindValidation(t *testing.T) {
	tests := []struct {
		name   string
		id     int
		report FindReport
	}{
		{"missing id", 0, FindReport{FoundBy: "a", DateFound: "2024-01-01", Link: "https://x.io"}},
		{"missing finder", 3, FindReport{DateFound: "2024-01-01", Link: "https://x.io"}},
		{"missing link", 3, FindReport{FoundBy: "a", DateFound: "2024-01-01"}},
		{"blank date", 3, FindReport{FoundBy: "a", DateFound: "  ", Link: "https://x.io"}},
		{"bad date", 3, FindReport{FoundBy: "a", DateFound: "yesterday", Link: "https://x.io"}},
		{"script link", 3, FindReport{FoundBy: "a", DateFound: "2024-01-01", Link: "javascript:alert(1)"}},
		{"data link", 3, FindReport{FoundBy: "a", DateFound: "2024-01-01", Link: "data:text/html,<script>"}},
		{"relative link", 3, FindReport{FoundBy: "a", DateFound: "2024-01-01", Link: "/cards/3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, kv := newTestCardService(t)
			_, err := svc.ReportFind(context.Background(), tt.id, tt.report)
			if !IsValidation(err) {
				t.Errorf("Expected ValidationError, got %v", err)
			}
			if kv.setCount() != 0 {
				t.Error("Validation failures must not touch the store")
			}
		})
	}
}

func TestMutationUnknownCard(t *testing.T) {
	svc, _, _ := newTestCardService(t)
	ctx := context.Background()

	_, err := svc.UpdateImage(ctx, 99, "/images/x.jpg")
	if !IsNotFound(err) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}

	_, err = svc.GetCard(ctx, 78)
	if !IsNotFound(err) {
		t.Errorf("Expected NotFoundError from GetCard, got %v", err)
	}
}

func TestAddPriceHistoryEntry(t *testing.T) {
	svc, _, _ := newTestCardService(t)
	ctx := context.Background()

	_, err := svc.AddPriceHistoryEntry(ctx, 5, &models.PriceHistoryEntry{
		Price: models.Float64(100), Date: "2024-01-01",
	})
	if err != nil {
		t.Fatalf("First entry failed: %v", err)
	}
	card, err := svc.AddPriceHistoryEntry(ctx, 5, &models.PriceHistoryEntry{
		Price: models.Float64(200), Date: "2024-06-01", SoldBy: "moogle", SoldTo: "tonberry",
	})
	if err != nil {
		t.Fatalf("Second entry failed: %v", err)
	}

	want := []models.PriceHistoryEntry{
		{Price: models.Float64(200), Date: "2024-06-01", SoldBy: "moogle", SoldTo: "tonberry"},
		{Price: models.Float64(100), Date: "2024-01-01"},
	}
	if diff := cmp.Diff(want, card.PriceHistory); diff != "" {
		t.Errorf("History mismatch (-want +got):\n%s", diff)
	}
	if *card.Price != 200 || card.PriceDate != "2024-06-01" {
		t.Errorf("Expected current price 200 on 2024-06-01, got %v on %s", *card.Price, card.PriceDate)
	}

	// An older sale goes to the tail and leaves the current price alone
	card, err = svc.AddPriceHistoryEntry(ctx, 5, &models.PriceHistoryEntry{
		Price: models.Float64(50), Date: "2023-01-01",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(card.PriceHistory) != 3 || card.PriceHistory[2].PriceValue() != 50 {
		t.Errorf("Older entry should be last: %+v", card.PriceHistory)
	}
	if *card.Price != 200 {
		t.Errorf("Current price should stay 200, got %v", *card.Price)
	}
}

func TestAddPriceHistoryEntryValidation(t *testing.T) {
	tests := []struct {
		name  string
		entry *models.PriceHistoryEntry
	}{
		{"nil entry", nil},
		{"missing price", &models.PriceHistoryEntry{Date: "2024-01-01"}},
		{"missing date", &models.PriceHistoryEntry{Price: models.Float64(10)}},
		{"negative price", &models.PriceHistoryEntry{Price: models.Float64(-1), Date: "2024-01-01"}},
		{"infinite price", &models.PriceHistoryEntry{Price: models.Float64(math.Inf(1)), Date: "2024-01-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, kv := newTestCardService(t)
			_, err := svc.AddPriceHistoryEntry(context.Background(), 5, tt.entry)
			if !IsValidation(err) {
				t.Errorf("Expected ValidationError, got %v", err)
			}
			if kv.setCount() != 0 {
				t.Error("Validation failures must not touch the store")
			}
		})
	}
}

func TestUpdateCurrentPrice(t *testing.T) {
	svc, _, _ := newTestCardService(t)
	ctx := context.Background()

	card, err := svc.UpdateCurrentPrice(ctx, 9, models.Float64(15000))
	if err != nil {
		t.Fatalf("UpdateCurrentPrice failed: %v", err)
	}
	today := models.Today()
	if *card.Price != 15000 || card.PriceDate != today {
		t.Errorf("Expected 15000 dated %s, got %v dated %s", today, *card.Price, card.PriceDate)
	}
	if len(card.PriceHistory) != 1 || card.PriceHistory[0].Date != today {
		t.Errorf("Expected a single history entry for today: %+v", card.PriceHistory)
	}

	// A second price on the same day wins the tie
	card, err = svc.UpdateCurrentPrice(ctx, 9, models.Float64(0))
	if err != nil {
		t.Fatal(err)
	}
	if *card.Price != 0 || card.PriceHistory[0].PriceValue() != 0 {
		t.Errorf("Latest same-day price should be current: %+v", card)
	}
}

func TestUpdateCurrentPriceRejectsNegative(t *testing.T) {
	svc, store, _ := newTestCardService(t)
	ctx := context.Background()

	before := mustCollection(t, store)
	_, err := svc.UpdateCurrentPrice(ctx, 9, models.Float64(-5))
	if !IsValidation(err) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if diff := cmp.Diff(before, mustCollection(t, store)); diff != "" {
		t.Errorf("Collection changed after rejected update:\n%s", diff)
	}

	_, err = svc.UpdateCurrentPrice(ctx, 9, nil)
	if !IsValidation(err) {
		t.Errorf("Expected ValidationError for nil price, got %v", err)
	}
}

func TestUpdateGrading(t *testing.T) {
	svc, _, _ := newTestCardService(t)

	var input models.GradingInput
	if err := json.Unmarshal([]byte(`{"service":"PSA","grade":"9.5"}`), &input); err != nil {
		t.Fatal(err)
	}

	card, err := svc.UpdateGrading(context.Background(), 3, &input)
	if err != nil {
		t.Fatalf("UpdateGrading failed: %v", err)
	}
	want := &models.GradingInfo{Service: "PSA", Grade: 9.5, DateGraded: models.Today()}
	if diff := cmp.Diff(want, card.Grading); diff != "" {
		t.Errorf("Grading mismatch (-want +got):\n%s", diff)
	}

	input = models.GradingInput{Service: "BGS", Grade: models.NewFlexFloat(10), DateGraded: "2023-12-01"}
	card, err = svc.UpdateGrading(context.Background(), 3, &input)
	if err != nil {
		t.Fatal(err)
	}
	if card.Grading.Service != "BGS" || card.Grading.DateGraded != "2023-12-01" {
		t.Errorf("Grading should be replaced whole: %+v", card.Grading)
	}
}

func TestUpdateGradingValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"negative grade", `{"service":"PSA","grade":-1}`, "Invalid grade value"},
		{"non-numeric grade", `{"service":"PSA","grade":"mint"}`, "Invalid grade value"},
		{"missing grade", `{"service":"PSA"}`, "Missing required fields"},
		{"missing service", `{"grade":9}`, "Missing required fields"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newTestCardService(t)
			before := mustCollection(t, store)

			var input models.GradingInput
			if err := json.Unmarshal([]byte(tt.body), &input); err != nil {
				t.Fatal(err)
			}
			_, err := svc.UpdateGrading(context.Background(), 3, &input)
			if !IsValidation(err) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if err.Error() != tt.message {
				t.Errorf("Expected %q, got %q", tt.message, err.Error())
			}
			if diff := cmp.Diff(before, mustCollection(t, store)); diff != "" {
				t.Errorf("Collection changed after rejected grading:\n%s", diff)
			}
		})
	}
}

func TestUpdateImage(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		valid bool
	}{
		{"absolute url", "https://cdn.example.com/chocobo.png", true},
		{"root path", "/images/custom-01.jpg", true},
		{"empty", "", false},
		{"relative path", "images/x.jpg", false},
		{"protocol relative", "//evil.example.com/x.jpg", false},
		{"garbage", "not a url", false},
		{"plain http", "http://cdn.example.com/a.jpg", true},
		{"javascript scheme", "javascript:alert(1)", false},
		{"file scheme", "file:///etc/passwd", false},
		{"mailto scheme", "mailto:a@b.c", false},
		{"data scheme", "data:text/html,<script>", false},
		{"ftp scheme", "ftp://files.example.com/a.jpg", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestCardService(t)
			card, err := svc.UpdateImage(context.Background(), 1, tt.url)
			if !tt.valid {
				if !IsValidation(err) {
					t.Errorf("Expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateImage failed: %v", err)
			}
			if card.Image != tt.url || card.DisplayImage() != tt.url {
				t.Errorf("Expected image %q, got %q", tt.url, card.Image)
			}
		})
	}
}

func TestMutationStoreFailureLeavesCollection(t *testing.T) {
	svc, store, kv := newTestCardService(t)
	ctx := context.Background()

	before := mustCollection(t, store)
	kv.failSet = true

	_, err := svc.ReportFind(ctx, 1, FindReport{FoundBy: "a", DateFound: "2024-01-01", Link: "https://x.io"})
	if !IsStore(err) {
		t.Fatalf("Expected StoreError, got %v", err)
	}

	kv.failSet = false
	if diff := cmp.Diff(before, mustCollection(t, store)); diff != "" {
		t.Errorf("Collection changed after failed write:\n%s", diff)
	}
}
