package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/orderengine/internal/domain/model"
	"github.com/polkiloo/orderengine/internal/server/http/dto"
	"github.com/polkiloo/orderengine/internal/usecase"
)

// InventoryHandler manages stock endpoints.
type InventoryHandler struct {
	facade InventoryFacade
}

// NewInventoryHandler constructs InventoryHandler.
func NewInventoryHandler(facade InventoryFacade) *InventoryHandler {
	return &InventoryHandler{facade: facade}
}

// Adjust handles POST /api/inventory/:variantId/adjustments.
func (h *InventoryHandler) Adjust(c *gin.Context) {
	variantID, ok := pathID(c, "variantId")
	if !ok {
		return
	}
	var req dto.AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	entry, err := h.facade.AdjustStock(c.Request.Context(), usecase.AdjustmentRequest{
		VariantID: variantID,
		Delta:     req.Delta,
		Type:      model.InventoryChangeType(strings.ToUpper(strings.TrimSpace(req.Type))),
		Reason:    strings.TrimSpace(req.Reason),
		ActorID:   CurrentActorID(c),
		OrderID:   req.OrderID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toInventoryLogResponse(*entry))
}

// Log handles GET /api/inventory/:variantId/log.
func (h *InventoryHandler) Log(c *gin.Context) {
	variantID, ok := pathID(c, "variantId")
	if !ok {
		return
	}
	entries, err := h.facade.InventoryLog(c.Request.Context(), variantID)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.InventoryLogResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toInventoryLogResponse(e))
	}
	c.JSON(http.StatusOK, resp)
}

func toInventoryLogResponse(e model.InventoryLogEntry) dto.InventoryLogResponse {
	return dto.InventoryLogResponse{
		ID:               e.ID,
		VariantID:        e.VariantID,
		Type:             string(e.ChangeType),
		Delta:            e.QuantityDelta,
		PreviousQuantity: e.PreviousQuantity,
		NewQuantity:      e.NewQuantity,
		Reason:           e.Reason,
		ActorID:          e.ActorID,
		OrderID:          e.OrderID,
		CreatedAt:        e.CreatedAt,
	}
}
