package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codemart-app/backend/database"
	"github.com/codemart-app/backend/errs"
	"github.com/codemart-app/backend/models"
)

type transactionHandler struct {
	responder       Responder
	logger          zerolog.Logger
	transactionRepo database.TransactionRepository
	orderRepo       database.OrderRepository
}

func newTransactionHandler(transactionRepo database.TransactionRepository, orderRepo database.OrderRepository) transactionHandler {
	logger := log.With().Str("handlerName", "transactionHandler").Logger()

	return transactionHandler{
		responder:       NewResponder(logger),
		logger:          logger,
		transactionRepo: transactionRepo,
		orderRepo:       orderRepo,
	}
}

type createTransactionRequest struct {
	OrderID    uint                     `json:"orderId"`
	ExternalID string                   `json:"externalId"`
	Method     models.PaymentMethod     `json:"method"`
	Amount     float64                  `json:"amount"`
	Status     models.TransactionStatus `json:"status"`
}

type updateTransactionRequest struct {
	ExternalID *string                   `json:"externalId"`
	Method     *models.PaymentMethod     `json:"method"`
	Amount     *float64                  `json:"amount"`
	Status     *models.TransactionStatus `json:"status"`
}

type processPaymentRequest struct {
	Status models.TransactionStatus `json:"status"`
}

func (h transactionHandler) getAllTransactions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transactions, err := h.transactionRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, NewTransactionResponses(transactions))
	}
}

func (h transactionHandler) getTransaction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transactionID, apiErr := parseUintParam(r, "transactionID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		transaction, err := h.transactionRepo.FindByID(transactionID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, NewTransactionResponse(*transaction))
	}
}

func (h transactionHandler) filterByStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := models.TransactionStatus(r.URL.Query().Get("status"))
		if !status.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("status", "must be one of pending, success, failed"))
			return
		}

		transactions, err := h.transactionRepo.FindByStatus(status)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, NewTransactionResponses(transactions))
	}
}

// createTransaction attaches a payment record to an existing order. The
// status defaults to pending when omitted.
func (h transactionHandler) createTransaction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTransactionRequest
		if apiErr := decodeBody(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}
		if !req.Method.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("method", "must be one of card, paypal, bank_transfer"))
			return
		}
		if req.Status == "" {
			req.Status = models.TransactionPending
		}
		if !req.Status.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("status", "must be one of pending, success, failed"))
			return
		}
		if req.Amount < 0 {
			h.responder.WriteError(w, errs.NewInvalidFieldError("amount", "must not be negative"))
			return
		}

		if _, err := h.orderRepo.FindByID(req.OrderID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		transaction := models.Transaction{
			OrderID:    req.OrderID,
			ExternalID: req.ExternalID,
			Method:     req.Method,
			Amount:     req.Amount,
			Status:     req.Status,
		}
		if err := h.transactionRepo.Add(&transaction); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Uint("transactionID", transaction.ID).Uint("orderID", req.OrderID).Msg("transaction created")
		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, NewTransactionResponse(transaction))
	}
}

// processPayment moves the transaction to the given status; success also
// completes the parent order.
func (h transactionHandler) processPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transactionID, apiErr := parseUintParam(r, "transactionID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		var req processPaymentRequest
		if apiErr := decodeBody(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}
		if !req.Status.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("status", "must be one of pending, success, failed"))
			return
		}

		transaction, err := h.transactionRepo.ProcessPayment(transactionID, req.Status)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().
			Uint("transactionID", transaction.ID).
			Str("status", string(transaction.Status)).
			Msg("transaction processed")
		h.responder.WriteJSON(w, NewTransactionResponse(*transaction))
	}
}

func (h transactionHandler) updateTransaction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transactionID, apiErr := parseUintParam(r, "transactionID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		var req updateTransactionRequest
		if apiErr := decodeBody(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		transaction, err := h.transactionRepo.FindByID(transactionID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.ExternalID != nil {
			transaction.ExternalID = *req.ExternalID
		}
		if req.Method != nil {
			if !req.Method.Valid() {
				h.responder.WriteError(w, errs.NewInvalidFieldError("method", "must be one of card, paypal, bank_transfer"))
				return
			}
			transaction.Method = *req.Method
		}
		if req.Amount != nil {
			if *req.Amount < 0 {
				h.responder.WriteError(w, errs.NewInvalidFieldError("amount", "must not be negative"))
				return
			}
			transaction.Amount = *req.Amount
		}
		if req.Status != nil {
			if !req.Status.Valid() {
				h.responder.WriteError(w, errs.NewInvalidFieldError("status", "must be one of pending, success, failed"))
				return
			}
			transaction.Status = *req.Status
		}

		if err := h.transactionRepo.UpdateFields(transaction); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, NewTransactionResponse(*transaction))
	}
}

func (h transactionHandler) deleteTransaction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transactionID, apiErr := parseUintParam(r, "transactionID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if _, err := h.transactionRepo.FindByID(transactionID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.transactionRepo.Delete(transactionID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "transaction deleted successfully",
		})
	}
}
