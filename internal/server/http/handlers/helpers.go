package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/orderengine/internal/domain/errors"
	pkgAuth "github.com/polkiloo/orderengine/internal/pkg/auth"
	"github.com/polkiloo/orderengine/internal/server/http/dto"
	"github.com/polkiloo/orderengine/internal/server/http/middleware"
)

// CurrentActorID extracts the authenticated actor from context, nil for anonymous requests.
func CurrentActorID(c *gin.Context) *int64 {
	val, ok := c.Get(middleware.ActorIDContextKey)
	if !ok {
		return nil
	}
	id, ok := val.(int64)
	if !ok || id <= 0 {
		return nil
	}
	return &id
}

func actorIsStaff(c *gin.Context) bool {
	val, ok := c.Get(middleware.RoleContextKey)
	if !ok {
		return false
	}
	role, ok := val.(pkgAuth.Role)
	return ok && pkgAuth.Claims{Role: role}.HasRole(pkgAuth.RoleStaff)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_ID", Message: "invalid " + name})
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
}

// writeError maps domain failures to status codes and the common error body.
func writeError(c *gin.Context, err error) {
	code := domainErrors.Code(err)
	resp := dto.ErrorResponse{Code: code, Message: err.Error()}

	var shortage *domainErrors.InsufficientStockError
	if errors.As(err, &shortage) {
		for _, s := range shortage.Shortages {
			resp.Items = append(resp.Items, dto.ShortageItem{
				VariantID: s.VariantID,
				SKU:       s.SKU,
				Requested: s.Requested,
				Available: s.Available,
			})
		}
	}

	c.JSON(statusFor(err, code), resp)
}

func statusFor(err error, code string) int {
	switch code {
	case "":
		return http.StatusInternalServerError
	case "NOT_FOUND":
		return http.StatusNotFound
	case "INSUFFICIENT_STOCK", "INVALID_TRANSITION", "ALREADY_EXISTS":
		return http.StatusConflict
	case "CUSTOMER_NOT_FOUND", "VARIANT_NOT_FOUND", "VARIANT_INACTIVE":
		return http.StatusUnprocessableEntity
	case "ACTOR_REQUIRED":
		return http.StatusUnauthorized
	case "ORDER_NUMBER_EXHAUSTED":
		return http.StatusServiceUnavailable
	case "TRANSACTION_ABORTED":
		if domainErrors.IsRetryable(err) {
			return http.StatusServiceUnavailable
		}
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
