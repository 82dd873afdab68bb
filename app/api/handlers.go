package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/prop-comb/app/cache"
	"github.com/lysyi3m/prop-comb/app/database"
	"github.com/lysyi3m/prop-comb/app/pipeline"
	"github.com/lysyi3m/prop-comb/app/proposal"
	"github.com/lysyi3m/prop-comb/app/registry"
	"github.com/lysyi3m/prop-comb/app/tasks"
)

func NewHandler(service *pipeline.Service, reg *registry.Registry, c *cache.Cache,
	snapshotRepo database.SnapshotRepository, scheduler tasks.TaskSchedulerInterface,
	dataDir string) *Handler {
	return &Handler{
		service:      service,
		registry:     reg,
		cache:        c,
		snapshotRepo: snapshotRepo,
		scheduler:    scheduler,
		dataDir:      dataDir,
	}
}

func (h *Handler) GetProposals(c *gin.Context) {
	var standards []string
	if raw := c.Query("standards"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				standards = append(standards, s)
			}
		}
	}

	status := c.Query("status")
	if status != "" {
		if _, ok := proposal.ParseStatus(status); !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid status filter",
				"valid": []proposal.Status{
					proposal.StatusDraft, proposal.StatusReview, proposal.StatusFinal,
					proposal.StatusWithdrawn, proposal.StatusLiving, proposal.StatusStagnant,
					proposal.StatusUnknown,
				},
			})
			return
		}
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = n
	}

	result := h.service.FetchLatestProposals(c.Request.Context(), standards, status, limit)
	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetStandards(c *gin.Context) {
	sources := h.registry.All()

	standards := make([]map[string]interface{}, 0, len(sources))
	for _, src := range sources {
		tiers := make([]map[string]string, 0, len(src.Tiers))
		for _, tier := range src.Tiers {
			tiers = append(tiers, map[string]string{
				"name":     string(tier.Name),
				"strategy": string(tier.Strategy),
			})
		}
		standards = append(standards, map[string]interface{}{
			"standard": src.Standard,
			"name":     src.Name,
			"url":      src.URL,
			"tiers":    tiers,
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"standards": standards,
		"total":     len(standards),
	})
}

func (h *Handler) GetSnapshot(c *gin.Context) {
	standard := strings.ToUpper(strings.TrimSpace(c.Param("standard")))
	if _, err := h.registry.Get(standard); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown standard"})
		return
	}

	snapshot, err := h.snapshotRepo.GetLatestSnapshot(standard)
	if err != nil {
		slog.Error("Database error", "operation", "get_snapshot", "standard", standard, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if snapshot == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No snapshot taken yet"})
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"generated_at":     snapshot.GeneratedAt.Unix(),
		"generated_at_iso": snapshot.GeneratedAt.Format("2006-01-02 15:04:05 UTC"),
		"count":            snapshot.ItemCount,
		"protocol":         snapshot.Standard,
		"source":           snapshot.Source,
		"items":            json.RawMessage(snapshot.Payload),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"standards": h.registry.Count(),
		"cached":    h.cache.Len(),
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIRefreshStandard(c *gin.Context) {
	standard := strings.ToUpper(strings.TrimSpace(c.Param("standard")))
	if _, err := h.registry.Get(standard); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown standard"})
		return
	}

	h.cache.Invalidate(standard)

	task := tasks.NewSnapshotTask(standard, h.service, h.snapshotRepo, h.dataDir)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing snapshot task", "standard", standard, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue snapshot task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message":  "Refresh scheduled",
		"standard": standard,
	})
}
