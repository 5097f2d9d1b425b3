package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"brewline/internal/domain"
	apperrors "brewline/internal/errors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SubmitUseCase interface {
	Submit(ctx context.Context, order domain.Order) error
}

type TransitionUseCase interface {
	Transition(ctx context.Context, orderID, target string) error
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

type Controller struct {
	submit     SubmitUseCase
	transition TransitionUseCase
	logger     *zap.Logger
}

func NewController(submit SubmitUseCase, transition TransitionUseCase, logger *zap.Logger) *Controller {
	return &Controller{
		submit:     submit,
		transition: transition,
		logger:     logger,
	}
}

// SubmitOrder handles POST /orders. The body is the document the customer
// client built at checkout, client-generated key included.
func (c *Controller) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var order domain.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := c.submit.Submit(r.Context(), order); err != nil {
		if ve, ok := apperrors.IsValidationError(err); ok {
			c.writeValidationError(w, ve.Message, ve.Details...)
			return
		}
		logger.Error("order submission failed", zap.String("orderId", order.ID), zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "INTERNAL_ERROR",
			"message": "an unexpected error occurred",
			"traceId": traceID,
		})
		return
	}

	c.writeJSON(w, http.StatusCreated, map[string]string{
		"id":      order.ID,
		"traceId": traceID,
	})
}

type transitionRequest struct {
	Status string `json:"status"`
}

// RequestTransition handles POST /orders/{orderId}/status. A stale request
// is acknowledged like a fresh one: the caller observes the real outcome
// through the feed, not through this response.
func (c *Controller) RequestTransition(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID := chi.URLParam(r, "orderId")

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}
	if req.Status == "" {
		c.writeValidationError(w, "status is required", apperrors.ValidationDetail{
			Field:   "status",
			Message: "target status is required",
		})
		return
	}

	err := c.transition.Transition(r.Context(), orderID, req.Status)
	if err != nil {
		if _, ok := apperrors.IsStateConflictError(err); ok {
			logger.Debug("stale transition dropped",
				zap.String("orderId", orderID),
				zap.String("to", req.Status),
			)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if nf, ok := apperrors.IsNotFoundError(err); ok {
			c.writeJSON(w, http.StatusNotFound, map[string]string{
				"error":   "NOT_FOUND",
				"message": nf.Message,
				"traceId": traceID,
			})
			return
		}
		logger.Error("transition failed", zap.String("orderId", orderID), zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "INTERNAL_ERROR",
			"message": "an unexpected error occurred",
			"traceId": traceID,
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListOrders handles GET /orders, the initial load before a client's feed
// subscription starts delivering.
func (c *Controller) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := c.transition.ListOrders(r.Context())
	if err != nil {
		c.logger.Error("listing orders failed", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "INTERNAL_ERROR",
			"message": "an unexpected error occurred",
		})
		return
	}

	if orders == nil {
		orders = []domain.Order{}
	}
	c.writeJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *Controller) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	response := validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	}
	c.writeJSON(w, http.StatusBadRequest, response)
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
