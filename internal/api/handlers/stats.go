package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/chocobo-tracker/internal/services"
)

type StatsHandler struct {
	cardService  *services.CardService
	statsService *services.StatsService
}

func NewStatsHandler(cardService *services.CardService, statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{
		cardService:  cardService,
		statsService: statsService,
	}
}

func (h *StatsHandler) GetStats(c *gin.Context) {
	cards, err := h.cardService.GetCollection(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.statsService.Compute(cards))
}
