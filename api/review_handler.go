package api

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codemart-app/backend/database"
	"github.com/codemart-app/backend/errs"
	"github.com/codemart-app/backend/models"
)

type reviewHandler struct {
	responder   Responder
	logger      zerolog.Logger
	reviewRepo  database.ReviewRepository
	projectRepo database.ProjectRepository
	userRepo    database.UserRepository
}

func newReviewHandler(reviewRepo database.ReviewRepository, projectRepo database.ProjectRepository, userRepo database.UserRepository) reviewHandler {
	logger := log.With().Str("handlerName", "reviewHandler").Logger()

	return reviewHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		reviewRepo:  reviewRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

type createReviewRequest struct {
	ProjectID uint   `json:"projectId"`
	Comment   string `json:"comment"`
	Rating    *int   `json:"rating"`
}

type updateReviewRequest struct {
	Comment string `json:"comment"`
	Rating  *int   `json:"rating"`
}

func (h reviewHandler) getAllReviews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviews, err := h.reviewRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, NewReviewResponses(reviews))
	}
}

func (h reviewHandler) getReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviewID, apiErr := parseUintParam(r, "reviewID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		review, err := h.reviewRepo.FindByID(reviewID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, NewReviewResponse(*review))
	}
}

func (h reviewHandler) getReviewsByProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, apiErr := parseUintParam(r, "projectID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		reviews, err := h.reviewRepo.FindByProject(projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, NewReviewResponses(reviews))
	}
}

// createReview records one review per user per project. The author is always
// the authenticated caller.
func (h reviewHandler) createReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ctxGetClaims(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}

		var req createReviewRequest
		if apiErr := decodeBody(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}
		if req.Rating == nil {
			h.responder.WriteError(w, errs.NewMissingFieldError("rating"))
			return
		}
		if *req.Rating < 0 || *req.Rating > 5 {
			h.responder.WriteError(w, errs.NewInvalidFieldError("rating", "must be between 0 and 5"))
			return
		}
		if strings.TrimSpace(req.Comment) == "" {
			h.responder.WriteError(w, errs.NewMissingFieldError("comment"))
			return
		}

		if _, err := h.projectRepo.FindByIDWithReviews(req.ProjectID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		userID := claims.UserID()
		if _, err := h.reviewRepo.FindByUserAndProject(userID, req.ProjectID); err == nil {
			h.responder.WriteError(w, errs.NewConflictError("user has already reviewed this project"))
			return
		} else if !errs.IsNotFound(err) {
			h.responder.WriteError(w, err)
			return
		}

		review := models.Review{
			ProjectID: req.ProjectID,
			UserID:    userID,
			Comment:   req.Comment,
			Rating:    *req.Rating,
		}
		if err := h.reviewRepo.Add(&review); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Uint("reviewID", review.ID).Uint("projectID", req.ProjectID).Msg("review created")
		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, NewReviewResponse(review))
	}
}

func (h reviewHandler) updateReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		review, ok := h.loadAuthoredReview(w, r)
		if !ok {
			return
		}

		var req updateReviewRequest
		if apiErr := decodeBody(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}
		if req.Rating != nil {
			if *req.Rating < 0 || *req.Rating > 5 {
				h.responder.WriteError(w, errs.NewInvalidFieldError("rating", "must be between 0 and 5"))
				return
			}
			review.Rating = *req.Rating
		}
		if req.Comment != "" {
			review.Comment = req.Comment
		}

		if err := h.reviewRepo.UpdateFields(review); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, NewReviewResponse(*review))
	}
}

func (h reviewHandler) deleteReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		review, ok := h.loadAuthoredReview(w, r)
		if !ok {
			return
		}

		if err := h.reviewRepo.Delete(review.ID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "review deleted successfully",
		})
	}
}

// loadAuthoredReview fetches the review and enforces the author-or-admin
// policy.
func (h reviewHandler) loadAuthoredReview(w http.ResponseWriter, r *http.Request) (*models.Review, bool) {
	claims, ok := ctxGetClaims(r.Context())
	if !ok {
		h.responder.WriteError(w, errs.NewMissingTokenError())
		return nil, false
	}

	reviewID, apiErr := parseUintParam(r, "reviewID")
	if apiErr != nil {
		h.responder.WriteError(w, apiErr)
		return nil, false
	}

	review, err := h.reviewRepo.FindByID(reviewID)
	if err != nil {
		h.responder.WriteError(w, err)
		return nil, false
	}
	if !claims.CanActFor(review.UserID) {
		h.responder.WriteError(w, errs.NewForbiddenError("not the author of this review"))
		return nil, false
	}
	return review, true
}
