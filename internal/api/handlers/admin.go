package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/chocobo-tracker/internal/models"
	"github.com/codyseavey/chocobo-tracker/internal/services"
)

// AdminHandler serves the single-card mutation endpoints
type AdminHandler struct {
	cardService *services.CardService
}

func NewAdminHandler(cardService *services.CardService) *AdminHandler {
	return &AdminHandler{cardService: cardService}
}

func (h *AdminHandler) ReportFind(c *gin.Context) {
	var req models.ReportFindRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.cardService.ReportFind(c.Request.Context(), int(req.CardID), services.FindReport{
		FoundBy:   req.FoundBy,
		DateFound: req.DateFound,
		Link:      req.Link,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CardMutationResponse{Success: true, Message: "Submission received", Card: *card})
}

func (h *AdminHandler) UpdatePrice(c *gin.Context) {
	var req models.UpdatePriceRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.cardService.UpdateCurrentPrice(c.Request.Context(), int(req.CardID), req.Price)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CardMutationResponse{Success: true, Message: "Price updated successfully", Card: *card})
}

func (h *AdminHandler) AddPriceHistory(c *gin.Context) {
	var req models.AddPriceHistoryRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.cardService.AddPriceHistoryEntry(c.Request.Context(), int(req.CardID), req.Entry)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CardMutationResponse{Success: true, Card: *card})
}

func (h *AdminHandler) UpdateGrading(c *gin.Context) {
	var req models.UpdateGradingRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.cardService.UpdateGrading(c.Request.Context(), int(req.CardID), req.Grading)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CardMutationResponse{Success: true, Card: *card})
}

func (h *AdminHandler) UpdateImage(c *gin.Context) {
	var req models.UpdateImageRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.cardService.UpdateImage(c.Request.Context(), int(req.CardID), req.ImageURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CardMutationResponse{Success: true, Message: "Image updated successfully", Card: *card})
}
