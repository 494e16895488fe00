package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codemart-app/backend/database"
	"github.com/codemart-app/backend/errs"
	"github.com/codemart-app/backend/models"
)

type orderHandler struct {
	responder   Responder
	logger      zerolog.Logger
	orderRepo   database.OrderRepository
	userRepo    database.UserRepository
	projectRepo database.ProjectRepository
}

func newOrderHandler(orderRepo database.OrderRepository, userRepo database.UserRepository, projectRepo database.ProjectRepository) orderHandler {
	logger := log.With().Str("handlerName", "orderHandler").Logger()

	return orderHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		projectRepo: projectRepo,
	}
}

type createOrderRequest struct {
	UserID    uint     `json:"userId"`
	ProjectID uint     `json:"projectId"`
	Amount    *float64 `json:"amount"`
	Completed bool     `json:"completed"`
}

type updateOrderRequest struct {
	Amount    *float64 `json:"amount"`
	Completed *bool    `json:"completed"`
}

func (h orderHandler) getAllOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := h.orderRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, NewOrderResponses(orders))
	}
}

// getOrder returns a single order to its buyer or an admin.
func (h orderHandler) getOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ctxGetClaims(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}

		orderID, apiErr := parseUintParam(r, "orderID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		order, err := h.orderRepo.FindByID(orderID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if !claims.CanActFor(order.UserID) {
			h.responder.WriteError(w, errs.NewForbiddenError("cannot view another user's order"))
			return
		}
		h.responder.WriteJSON(w, NewOrderResponse(*order))
	}
}

func (h orderHandler) getOrdersByUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ctxGetClaims(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}

		userID, apiErr := parseUintParam(r, "userID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}
		if !claims.CanActFor(userID) {
			h.responder.WriteError(w, errs.NewForbiddenError("cannot view another user's orders"))
			return
		}

		orders, err := h.orderRepo.FindByUser(userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, NewOrderResponses(orders))
	}
}

// createOrder is the manual admin path; the amount defaults to the project's
// current price when omitted.
func (h orderHandler) createOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if apiErr := decodeBody(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if _, err := h.userRepo.FindByID(req.UserID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		project, err := h.projectRepo.FindByIDWithReviews(req.ProjectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		amount := project.Price
		if req.Amount != nil {
			if *req.Amount < 0 {
				h.responder.WriteError(w, errs.NewInvalidFieldError("amount", "must not be negative"))
				return
			}
			amount = *req.Amount
		}

		order := models.Order{
			UserID:    req.UserID,
			ProjectID: req.ProjectID,
			Amount:    amount,
			OrderedAt: time.Now().UTC(),
			Completed: req.Completed,
		}
		if err := h.orderRepo.Add(&order); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Uint("orderID", order.ID).Msg("order created")
		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, NewOrderResponse(order))
	}
}

func (h orderHandler) updateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, apiErr := parseUintParam(r, "orderID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		var req updateOrderRequest
		if apiErr := decodeBody(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		order, err := h.orderRepo.FindByID(orderID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Amount != nil {
			if *req.Amount < 0 {
				h.responder.WriteError(w, errs.NewInvalidFieldError("amount", "must not be negative"))
				return
			}
			order.Amount = *req.Amount
		}
		if req.Completed != nil {
			order.Completed = *req.Completed
		}

		if err := h.orderRepo.UpdateFields(order); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, NewOrderResponse(*order))
	}
}

func (h orderHandler) completeOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, apiErr := parseUintParam(r, "orderID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if err := h.orderRepo.MarkCompleted(orderID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		order, err := h.orderRepo.FindByID(orderID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, NewOrderResponse(*order))
	}
}

func (h orderHandler) deleteOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, apiErr := parseUintParam(r, "orderID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if _, err := h.orderRepo.FindByID(orderID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.orderRepo.Delete(orderID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "order deleted successfully",
		})
	}
}
