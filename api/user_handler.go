package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codemart-app/backend/auth"
	"github.com/codemart-app/backend/database"
	"github.com/codemart-app/backend/errs"
	"github.com/codemart-app/backend/models"
	"github.com/codemart-app/backend/services/payment"
)

type userHandler struct {
	responder           Responder
	logger              zerolog.Logger
	userRepo            database.UserRepository
	projectRepo         database.ProjectRepository
	payments            *payment.Client
	allowRepeatPurchase bool
}

func newUserHandler(userRepo database.UserRepository, projectRepo database.ProjectRepository, payments *payment.Client, allowRepeatPurchase bool) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder:           NewResponder(logger),
		logger:              logger,
		userRepo:            userRepo,
		projectRepo:         projectRepo,
		payments:            payments,
		allowRepeatPurchase: allowRepeatPurchase,
	}
}

type updateUserRequest struct {
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Email          string  `json:"email"`
	Password       *string `json:"password"`
	Occupation     string  `json:"occupation"`
	Company        string  `json:"company"`
	ProfilePicture string  `json:"profilePicture"`
}

type createPaymentIntentRequest struct {
	UserID    uint    `json:"userId"`
	ProjectID uint    `json:"projectId"`
	Amount    float64 `json:"amount"`
}

func (h userHandler) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, apiErr := parseUintParam(r, "userID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		user, err := h.userRepo.FindByID(userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, NewUserResponse(*user))
	}
}

func (h userHandler) getAllUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := h.userRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		responses := make([]UserResponse, 0, len(users))
		for _, user := range users {
			responses = append(responses, NewUserResponse(user))
		}
		h.responder.WriteJSON(w, responses)
	}
}

// updateUser edits the profile. The password is re-hashed only when a
// non-empty one is supplied.
func (h userHandler) updateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := h.selfOrAdmin(w, r)
		if !ok {
			return
		}

		var req updateUserRequest
		if apiErr := decodeBody(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}
		for field, value := range map[string]string{
			"firstName": req.FirstName,
			"lastName":  req.LastName,
			"email":     req.Email,
		} {
			if strings.TrimSpace(value) == "" {
				h.responder.WriteError(w, errs.NewMissingFieldError(field))
				return
			}
		}

		user, err := h.userRepo.FindByID(userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user.FirstName = req.FirstName
		user.LastName = req.LastName
		user.Email = req.Email
		user.Occupation = req.Occupation
		user.Company = req.Company
		user.ProfilePicture = req.ProfilePicture
		if req.Password != nil && *req.Password != "" {
			hash, err := auth.HashPassword(*req.Password)
			if err != nil {
				h.responder.WriteError(w, errs.NewInternalError("failed to hash password"))
				return
			}
			user.PasswordHash = &hash
		}

		if err := h.userRepo.Update(user); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, NewUserResponse(*user))
	}
}

func (h userHandler) deleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, apiErr := parseUintParam(r, "userID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if _, err := h.userRepo.FindByID(userID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.userRepo.Delete(userID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "user deleted successfully",
		})
	}
}

// Wishlist and cart share the same shape: list, idempotent add, remove.

func (h userHandler) getWishlist() http.HandlerFunc {
	return h.memberList(h.userRepo.Wishlist)
}

func (h userHandler) addToWishlist() http.HandlerFunc {
	return h.memberAdd(h.userRepo.AddToWishlist)
}

func (h userHandler) removeFromWishlist() http.HandlerFunc {
	return h.memberRemove(h.userRepo.RemoveFromWishlist)
}

func (h userHandler) getCart() http.HandlerFunc {
	return h.memberList(h.userRepo.Cart)
}

func (h userHandler) addToCart() http.HandlerFunc {
	return h.memberAdd(h.userRepo.AddToCart)
}

func (h userHandler) removeFromCart() http.HandlerFunc {
	return h.memberRemove(h.userRepo.RemoveFromCart)
}

func (h userHandler) getBoughtProjects() http.HandlerFunc {
	return h.memberList(h.userRepo.Bought)
}

// buyProject checks the project exists, then records the purchase and a
// completed order for the current price atomically.
func (h userHandler) buyProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := h.selfOrAdmin(w, r)
		if !ok {
			return
		}
		projectID, apiErr := parseUintParam(r, "projectID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		project, err := h.projectRepo.FindByIDWithReviews(projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		order, err := h.userRepo.BuyProject(userID, projectID, project.Price, h.allowRepeatPurchase)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, NewOrderResponse(*order))
	}
}

func (h userHandler) getSellerRevenue() http.HandlerFunc {
	return h.sellerRevenue(false)
}

func (h userHandler) getSellerRevenueForMonth() http.HandlerFunc {
	return h.sellerRevenue(true)
}

// sellerRevenue sums completed orders across every project the user owns.
func (h userHandler) sellerRevenue(byMonth bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := h.selfOrAdmin(w, r)
		if !ok {
			return
		}

		month := 0
		if byMonth {
			var apiErr *errs.ApiErr
			month, apiErr = parseMonthParam(r)
			if apiErr != nil {
				h.responder.WriteError(w, apiErr)
				return
			}
		}

		orders, err := h.userRepo.SellerOrders(userID, month)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		total := 0.0
		for _, order := range orders {
			total += order.Amount
		}
		h.responder.WriteJSON(w, RevenueResponse{
			UserID:          userID,
			Month:           month,
			CompletedOrders: int64(len(orders)),
			Revenue:         total,
		})
	}
}

func (h userHandler) getSellerSales() http.HandlerFunc {
	return h.sellerSales(false)
}

func (h userHandler) getSellerSalesForMonth() http.HandlerFunc {
	return h.sellerSales(true)
}

// sellerSales returns the order records themselves, with project, buyer and
// transaction attached.
func (h userHandler) sellerSales(byMonth bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := h.selfOrAdmin(w, r)
		if !ok {
			return
		}

		month := 0
		if byMonth {
			var apiErr *errs.ApiErr
			month, apiErr = parseMonthParam(r)
			if apiErr != nil {
				h.responder.WriteError(w, apiErr)
				return
			}
		}

		orders, err := h.userRepo.SellerOrders(userID, month)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, NewOrderResponses(orders))
	}
}

// createPaymentIntent creates the Stripe intent and then records the
// purchase server-side. The two effects are not compensated: if the intent
// succeeds and the purchase fails the caller gets the error with the intent
// already created.
func (h userHandler) createPaymentIntent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ctxGetClaims(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}

		var req createPaymentIntentRequest
		if apiErr := decodeBody(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}
		if !claims.CanActFor(req.UserID) {
			h.responder.WriteError(w, errs.NewForbiddenError("cannot pay for another user"))
			return
		}
		if req.Amount <= 0 {
			h.responder.WriteError(w, errs.NewInvalidFieldError("amount", "must be a positive number"))
			return
		}

		project, err := h.projectRepo.FindByIDWithReviews(req.ProjectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		intent, err := h.payments.CreateIntent(req.Amount, map[string]string{
			"userId":    strconv.FormatUint(uint64(req.UserID), 10),
			"projectId": strconv.FormatUint(uint64(req.ProjectID), 10),
		})
		if err != nil {
			h.logger.Error().Err(err).Msg("payment intent creation failed")
			h.responder.WriteError(w, errs.NewInternalError("payment intent creation failed"))
			return
		}

		order, err := h.userRepo.BuyProject(req.UserID, req.ProjectID, project.Price, h.allowRepeatPurchase)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, PaymentIntentResponse{
			ClientSecret: intent.ClientSecret,
			Order:        NewOrderResponse(*order),
		})
	}
}

func (h userHandler) memberList(list func(uint) ([]models.Project, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := h.selfOrAdmin(w, r)
		if !ok {
			return
		}

		projects, err := list(userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, NewProjectResponses(projects))
	}
}

func (h userHandler) memberAdd(add func(uint, uint) (bool, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, projectID, ok := h.membershipParams(w, r)
		if !ok {
			return
		}

		added, err := add(userID, projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]any{"status": "success", "added": added})
	}
}

func (h userHandler) memberRemove(remove func(uint, uint) (bool, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, projectID, ok := h.membershipParams(w, r)
		if !ok {
			return
		}

		removed, err := remove(userID, projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]any{"status": "success", "removed": removed})
	}
}

func (h userHandler) membershipParams(w http.ResponseWriter, r *http.Request) (uint, uint, bool) {
	userID, _, ok := h.selfOrAdmin(w, r)
	if !ok {
		return 0, 0, false
	}
	projectID, apiErr := parseUintParam(r, "projectID")
	if apiErr != nil {
		h.responder.WriteError(w, apiErr)
		return 0, 0, false
	}
	// The project must exist for membership rows to reference it.
	if _, err := h.projectRepo.FindByIDWithReviews(projectID); err != nil {
		h.responder.WriteError(w, err)
		return 0, 0, false
	}
	return userID, projectID, true
}

// selfOrAdmin resolves the userID parameter and enforces the self-or-admin
// policy from the caller's claims.
func (h userHandler) selfOrAdmin(w http.ResponseWriter, r *http.Request) (uint, auth.Claims, bool) {
	claims, ok := ctxGetClaims(r.Context())
	if !ok {
		h.responder.WriteError(w, errs.NewMissingTokenError())
		return 0, claims, false
	}

	userID, apiErr := parseUintParam(r, "userID")
	if apiErr != nil {
		h.responder.WriteError(w, apiErr)
		return 0, claims, false
	}

	if !claims.CanActFor(userID) {
		h.responder.WriteError(w, errs.NewForbiddenError("cannot act for another user"))
		return 0, claims, false
	}
	return userID, claims, true
}
