package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/halfteen/horizons/app/database"
)

func NewHandler(sources database.SourceStore, items database.ItemStore, version string) *Handler {
	return &Handler{
		sources: sources,
		items:   items,
		version: version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
	}

	if sourceCount, err := h.sources.GetSourceCount(); err == nil {
		health["sources"] = sourceCount
	}
	if itemCount, err := h.items.GetItemCount(); err == nil {
		health["items"] = itemCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	counts, err := h.items.GetStatusCounts()
	if err != nil {
		log.Errorf("Database error: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	total := 0
	for _, count := range counts {
		total += count
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     total,
		"by_status": counts,
	})
}

func (h *Handler) GetPendingItems(c *gin.Context) {
	items, err := h.items.FetchPendingItems()
	if err != nil {
		log.Errorf("Database error: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	responses := make([]itemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toItemResponse(item))
	}

	c.JSON(http.StatusOK, responses)
}
