package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/chocobo-tracker/internal/models"
	"github.com/codyseavey/chocobo-tracker/internal/services"
)

type CardHandler struct {
	cardService *services.CardService
}

func NewCardHandler(cardService *services.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// GetCards returns the full collection in stored order
func (h *CardHandler) GetCards(c *gin.Context) {
	cards, err := h.cardService.GetCollection(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

// GetCollectionView returns the filtered, sorted collection with progress
// and the most recent find
func (h *CardHandler) GetCollectionView(c *gin.Context) {
	var query models.ViewOptions
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts, err := services.ParseViewOptions(query.Search, string(query.Status), string(query.Sort))
	if err != nil {
		respondError(c, err)
		return
	}

	cards, err := h.cardService.GetCollection(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.BuildView(cards, opts))
}

func (h *CardHandler) GetCard(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card id"})
		return
	}

	card, err := h.cardService.GetCard(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}
