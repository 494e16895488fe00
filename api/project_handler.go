package api

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codemart-app/backend/auth"
	"github.com/codemart-app/backend/database"
	"github.com/codemart-app/backend/errs"
	"github.com/codemart-app/backend/models"
	"github.com/codemart-app/backend/services/storage"
)

const defaultFeaturedCount = 7

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo database.ProjectRepository
	reviewRepo  database.ReviewRepository
	storage     *storage.Client
	bucket      string
}

func newProjectHandler(projectRepo database.ProjectRepository, reviewRepo database.ReviewRepository, storageClient *storage.Client, bucket string) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
		reviewRepo:  reviewRepo,
		storage:     storageClient,
		bucket:      bucket,
	}
}

type projectRequest struct {
	Name        string          `json:"name"`
	Category    models.Category `json:"category"`
	Description string          `json:"description"`
	Price       *float64        `json:"price"`
	FileURL     string          `json:"fileUrl"`
	VideoURL    *string         `json:"videoUrl"`
	Images      []string        `json:"images"`
	Languages   []string        `json:"languages"`
	Features    []string        `json:"features"`
}

func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		h.responder.WriteJSON(w, NewProjectDetailResponse(*project))
	}
}

func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.FindAllWithReviews()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, NewProjectResponses(projects))
	}
}

// getFeaturedProjects returns the top-N projects by rating, then recency,
// among projects that are not rejected. N defaults to 7.
func (h projectHandler) getFeaturedProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := defaultFeaturedCount
		if raw := r.URL.Query().Get("count"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				h.responder.WriteError(w, errs.NewInvalidFieldError("count", "must be a positive integer"))
				return
			}
			count = parsed
		}

		projects, err := h.projectRepo.FindAllWithReviews()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		eligible := make([]models.Project, 0, len(projects))
		for _, project := range projects {
			if project.Permission != models.PermissionRejected {
				eligible = append(eligible, project)
			}
		}
		models.SortFeatured(eligible)
		if len(eligible) > count {
			eligible = eligible[:count]
		}

		h.responder.WriteJSON(w, NewProjectResponses(eligible))
	}
}

func (h projectHandler) getProjectsSortedByPrice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.SortedByPrice()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, NewProjectResponses(projects))
	}
}

func (h projectHandler) searchProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			h.responder.WriteError(w, errs.NewMissingFieldError("name"))
			return
		}

		projects, err := h.projectRepo.SearchByName(name)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, NewProjectResponses(projects))
	}
}

// filterByRating keeps projects whose mean rating is at least the given
// threshold. No match yields an empty list, never 404.
func (h projectHandler) filterByRating() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("rating")
		if raw == "" {
			h.responder.WriteError(w, errs.NewMissingFieldError("rating"))
			return
		}
		minRating, err := strconv.ParseFloat(raw, 64)
		if err != nil || minRating < 0 || minRating > 5 {
			h.responder.WriteError(w, errs.NewInvalidFieldError("rating", "must be a number between 0 and 5"))
			return
		}

		projects, err := h.projectRepo.FindAllWithReviews()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		matched := make([]models.Project, 0, len(projects))
		for _, project := range projects {
			if project.Rating() >= minRating {
				matched = append(matched, project)
			}
		}
		h.responder.WriteJSON(w, NewProjectResponses(matched))
	}
}

func (h projectHandler) filterByCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := models.Category(r.URL.Query().Get("category"))
		if !category.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("category", "unknown category"))
			return
		}

		projects, err := h.projectRepo.FindByCategory(category)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, NewProjectResponses(projects))
	}
}

// filterByPrice applies inclusive bounds; min defaults to 0, max to
// unbounded.
func (h projectHandler) filterByPrice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		min := 0.0
		max := math.MaxFloat64
		if raw := r.URL.Query().Get("min"); raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil || parsed < 0 {
				h.responder.WriteError(w, errs.NewInvalidFieldError("min", "must be a non-negative number"))
				return
			}
			min = parsed
		}
		if raw := r.URL.Query().Get("max"); raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil || parsed < min {
				h.responder.WriteError(w, errs.NewInvalidFieldError("max", "must be a number >= min"))
				return
			}
			max = parsed
		}

		projects, err := h.projectRepo.FindByPriceRange(min, max)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, NewProjectResponses(projects))
	}
}

func (h projectHandler) filterByPermission() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		permission := models.Permission(r.URL.Query().Get("permission"))
		if !permission.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("permission", "unknown permission state"))
			return
		}

		projects, err := h.projectRepo.FindByPermission(permission)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, NewProjectResponses(projects))
	}
}

// getCategories returns the canonical category-to-label mapping so clients
// never maintain their own.
func (h projectHandler) getCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories := models.Categories()
		responses := make([]CategoryResponse, 0, len(categories))
		for _, category := range categories {
			responses = append(responses, CategoryResponse{Value: category, Label: category.Label()})
		}
		h.responder.WriteJSON(w, responses)
	}
}

func (h projectHandler) getProjectReviews() http.HandlerFunc {
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

func (h projectHandler) getProjectsByOwner() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, apiErr := parseUintParam(r, "userID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		projects, err := h.projectRepo.FindByOwner(userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, NewProjectResponses(projects))
	}
}

// getOwnerRating returns the mean of the user's projects' mean ratings.
func (h projectHandler) getOwnerRating() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, apiErr := parseUintParam(r, "userID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		projects, err := h.projectRepo.FindByOwner(userID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]any{
			"userId": userID,
			"rating": models.OwnerRating(projects),
		})
	}
}

func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ctxGetClaims(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}

		var req projectRequest
		if apiErr := decodeBody(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}
		if req.Name == "" {
			h.responder.WriteError(w, errs.NewMissingFieldError("name"))
			return
		}
		if !req.Category.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("category", "unknown category"))
			return
		}
		if req.Price == nil || *req.Price < 0 {
			h.responder.WriteError(w, errs.NewInvalidFieldError("price", "must be a non-negative number"))
			return
		}

		project := models.Project{
			Name:        req.Name,
			Category:    req.Category,
			Description: req.Description,
			Price:       *req.Price,
			FileURL:     req.FileURL,
			VideoURL:    req.VideoURL,
			UploadedAt:  time.Now().UTC(),
			Permission:  models.PermissionPending,
			Images:      req.Images,
			Languages:   req.Languages,
			Features:    req.Features,
			OwnerID:     claims.UserID(),
		}
		if err := h.projectRepo.Add(&project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.Header().Set("Location", fmt.Sprintf("/api/project/%d", project.ID))
		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, NewProjectResponse(project))
	}
}

// updateProject writes the mutable field whitelist; the permission state is
// never changed here.
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, claims, ok := h.loadOwnedProject(w, r)
		if !ok {
			return
		}

		var req projectRequest
		if apiErr := decodeBody(r, &req); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}
		if req.Name == "" {
			h.responder.WriteError(w, errs.NewMissingFieldError("name"))
			return
		}
		if !req.Category.Valid() {
			h.responder.WriteError(w, errs.NewInvalidFieldError("category", "unknown category"))
			return
		}
		if req.Price == nil || *req.Price < 0 {
			h.responder.WriteError(w, errs.NewInvalidFieldError("price", "must be a non-negative number"))
			return
		}

		project.Name = req.Name
		project.Category = req.Category
		project.Description = req.Description
		project.Price = *req.Price
		project.FileURL = req.FileURL
		project.VideoURL = req.VideoURL
		project.Images = req.Images
		project.Languages = req.Languages
		project.Features = req.Features

		if err := h.projectRepo.UpdateFields(project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		updated, err := h.projectRepo.FindByIDWithReviews(project.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Uint("projectID", project.ID).Uint("userID", claims.UserID()).Msg("project updated")
		h.responder.WriteJSON(w, NewProjectDetailResponse(*updated))
	}
}

func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, _, ok := h.loadOwnedProject(w, r)
		if !ok {
			return
		}

		// Best effort: remove the stored archive when it lives in our
		// bucket. The listing goes away regardless.
		if h.storage != nil && project.FileURL != "" {
			if objectPath := h.storage.ObjectPath(h.bucket, project.FileURL); objectPath != "" {
				if err := h.storage.RemoveObject(h.bucket, objectPath); err != nil {
					h.logger.Warn().Err(err).Uint("projectID", project.ID).Msg("failed to remove project file from storage")
				}
			}
		}

		if err := h.projectRepo.Delete(project.ID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}

func (h projectHandler) approveProject() http.HandlerFunc {
	return h.setPermission(models.PermissionApproved)
}

func (h projectHandler) rejectProject() http.HandlerFunc {
	return h.setPermission(models.PermissionRejected)
}

// setPermission applies a terminal moderation state. Both states stay
// reachable from any prior state, including re-approving a rejected project.
func (h projectHandler) setPermission(permission models.Permission) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, apiErr := parseUintParam(r, "projectID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if _, err := h.projectRepo.FindByIDWithReviews(projectID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.projectRepo.SetPermission(projectID, permission); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"status":     "success",
			"projectId":  projectID,
			"permission": permission,
		})
	}
}

// getProjectRevenue computes completed orders times the current price.
func (h projectHandler) getProjectRevenue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, _, ok := h.loadOwnedProject(w, r)
		if !ok {
			return
		}

		count, err := h.projectRepo.CompletedOrderCount(project.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, RevenueResponse{
			ProjectID:       project.ID,
			CompletedOrders: count,
			Revenue:         float64(count) * project.Price,
		})
	}
}

// getProjectRevenueForMonth filters by calendar month number, ignoring year.
func (h projectHandler) getProjectRevenueForMonth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, _, ok := h.loadOwnedProject(w, r)
		if !ok {
			return
		}

		month, apiErr := parseMonthParam(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		count, err := h.projectRepo.CompletedOrderCountInMonth(project.ID, month)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, RevenueResponse{
			ProjectID:       project.ID,
			Month:           month,
			CompletedOrders: count,
			Revenue:         float64(count) * project.Price,
		})
	}
}

func (h projectHandler) getProjectBuyers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, _, ok := h.loadOwnedProject(w, r)
		if !ok {
			return
		}

		buyers, err := h.projectRepo.Buyers(project.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		responses := make([]UserResponse, 0, len(buyers))
		for _, buyer := range buyers {
			responses = append(responses, NewUserResponse(buyer))
		}
		h.responder.WriteJSON(w, responses)
	}
}

// loadOwnedProject resolves the projectID parameter and enforces the
// owner-or-admin policy against the caller's claims.
func (h projectHandler) loadOwnedProject(w http.ResponseWriter, r *http.Request) (*models.Project, auth.Claims, bool) {
	claims, ok := ctxGetClaims(r.Context())
	if !ok {
		h.responder.WriteError(w, errs.NewMissingTokenError())
		return nil, claims, false
	}

	projectID, apiErr := parseUintParam(r, "projectID")
	if apiErr != nil {
		h.responder.WriteError(w, apiErr)
		return nil, claims, false
	}

	project, err := h.projectRepo.FindByIDWithReviews(projectID)
	if err != nil {
		h.responder.WriteError(w, err)
		return nil, claims, false
	}

	if !claims.CanActFor(project.OwnerID) {
		h.responder.WriteError(w, errs.NewForbiddenError("not the project owner"))
		return nil, claims, false
	}

	return project, claims, true
}
