package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/orderengine/internal/domain/model"
	"github.com/polkiloo/orderengine/internal/server/http/dto"
	"github.com/polkiloo/orderengine/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order := toCreateOrderRequest(req)
	order.StaffActor = actorIsStaff(c)
	receipt, err := h.facade.CreateOrder(c.Request.Context(), order, CurrentActorID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Location", "/api/orders/number/"+receipt.Order.Number)
	c.JSON(http.StatusCreated, toOrderResponse(receipt))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	receipt, err := h.facade.Order(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(receipt))
}

// GetByNumber handles GET /api/orders/number/:number.
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	receipt, err := h.facade.OrderByNumber(c.Request.Context(), strings.ToUpper(strings.TrimSpace(c.Param("number"))))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(receipt))
}

// History handles GET /api/orders/:id/history.
func (h *OrderHandler) History(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entries, err := h.facade.History(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]dto.HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		item := dto.HistoryEntryResponse{
			To:        string(e.ToStatus),
			ActorID:   e.ActorID,
			Notes:     e.Notes,
			Override:  e.Override,
			CreatedAt: e.CreatedAt,
		}
		if e.FromStatus != nil {
			from := string(*e.FromStatus)
			item.From = &from
		}
		resp = append(resp, item)
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus handles PATCH /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	h.changeStatus(c, h.facade.UpdateStatus)
}

// OverrideStatus handles POST /api/orders/:id/status/override.
func (h *OrderHandler) OverrideStatus(c *gin.Context) {
	h.changeStatus(c, h.facade.OverrideStatus)
}

type statusFunc func(ctx context.Context, orderID int64, to model.OrderStatus, actor *int64, notes string) (*model.Order, error)

func (h *OrderHandler) changeStatus(c *gin.Context, apply statusFunc) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	to := model.OrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if _, err := apply(c.Request.Context(), id, to, CurrentActorID(c), req.Notes); err != nil {
		writeError(c, err)
		return
	}
	receipt, err := h.facade.Order(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(receipt))
}

func toCreateOrderRequest(req dto.CreateOrderRequest) usecase.CreateOrderRequest {
	out := usecase.CreateOrderRequest{
		CustomerID:       req.CustomerID,
		SaveCustomerInfo: req.SaveCustomerInfo,
		Items:            make([]usecase.LineRequest, 0, len(req.Items)),
		DeliveryMethod:   model.DeliveryMethod(strings.ToUpper(strings.TrimSpace(req.DeliveryMethod))),
		PaymentMethod:    model.PaymentMethod(strings.ToUpper(strings.TrimSpace(req.PaymentMethod))),
		PaymentReference: req.PaymentReference,
		Notes:            req.Notes,
		Source:           model.OrderSource(strings.ToUpper(strings.TrimSpace(req.Source))),
	}
	if req.Guest != nil {
		out.Guest = &usecase.GuestInfo{
			FirstName: req.Guest.FirstName,
			LastName:  req.Guest.LastName,
			Email:     req.Guest.Email,
			Phone:     req.Guest.Phone,
		}
	}
	for _, item := range req.Items {
		out.Items = append(out.Items, usecase.LineRequest{VariantID: item.VariantID, Quantity: item.Quantity})
	}
	if req.DeliveryAddress != nil {
		out.DeliveryAddress = &model.DeliveryAddress{
			FullAddress:  strings.TrimSpace(req.DeliveryAddress.FullAddress),
			Zone:         req.DeliveryAddress.Zone,
			Instructions: strings.TrimSpace(req.DeliveryAddress.Instructions),
		}
	}
	return out
}

func toOrderResponse(receipt *model.OrderReceipt) dto.OrderResponse {
	o := receipt.Order
	resp := dto.OrderResponse{
		ID:         o.ID,
		Number:     o.Number,
		CustomerID: o.CustomerID,
		Status:     string(o.Status),
		Source:     string(o.Source),
		Items:      make([]dto.LineItemResponse, 0, len(receipt.Items)),
		Subtotal:   dto.Money(o.Subtotal),
		Total:      dto.Money(o.Total),
		Delivery: dto.DeliveryResponse{
			Method:       string(o.DeliveryMethod),
			Address:      o.DeliveryAddress,
			Zone:         o.DeliveryZone,
			Instructions: o.DeliveryInstructions,
			Fee:          dto.Money(o.DeliveryFee),
			IsFree:       receipt.Delivery.IsFree,
			Threshold:    dto.Money(receipt.Delivery.Threshold),
		},
		Payment: dto.PaymentResponse{
			Method:    string(o.PaymentMethod),
			Status:    string(o.PaymentStatus),
			Reference: o.PaymentReference,
			Amount:    dto.Money(o.Total),
		},
		Notes:       o.Notes,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		CompletedAt: o.CompletedAt,
	}
	for _, item := range receipt.Items {
		resp.Items = append(resp.Items, dto.LineItemResponse{
			VariantID:   item.VariantID,
			ProductID:   item.ProductID,
			SKU:         item.SKU,
			ProductName: item.ProductName,
			Size:        item.Size,
			Color:       item.Color,
			Quantity:    item.Quantity,
			UnitPrice:   dto.Money(item.PriceAtPurchase),
			Subtotal:    dto.Money(item.Subtotal()),
		})
	}
	if txn := receipt.Transaction; txn != nil {
		resp.Payment.Provider = txn.Provider
		resp.Payment.Amount = dto.Money(txn.Amount)
		resp.Payment.Verified = txn.VerifiedAt
		if txn.Reference != nil {
			resp.Payment.Reference = txn.Reference
		}
	}
	return resp
}
