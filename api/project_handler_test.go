package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemart-app/backend/models"
)

func newProjectHandlerForTest(projects *fakeProjectRepo, reviews *fakeReviewRepo) projectHandler {
	return newProjectHandler(projects, reviews, nil, "projects")
}

func TestCreateProject(t *testing.T) {
	t.Run("defaults to pending and stamps the upload time", func(t *testing.T) {
		projects := newFakeProjectRepo()
		handler := newProjectHandlerForTest(projects, newFakeReviewRepo())

		claims := claimsFor(3, false)
		price := 49.99
		body := map[string]any{
			"name":      "Inventory Tracker",
			"category":  "web_application",
			"price":     price,
			"languages": []string{"Go", "TypeScript"},
			// a client cannot smuggle in an approval
			"permission": "approved",
			"uploadedAt": "2001-01-01T00:00:00Z",
		}

		before := time.Now().UTC()
		w := httptest.NewRecorder()
		handler.createProject()(w, newTestRequest(http.MethodPost, "/api/project/createproject", body, nil, &claims))

		require.Equal(t, http.StatusCreated, w.Code)
		response := decodeResponse[ProjectResponse](t, w)
		assert.Equal(t, models.PermissionPending, response.Permission)
		assert.Equal(t, uint(3), response.OwnerID)
		assert.Equal(t, price, response.Price)
		assert.Equal(t, []string{"Go", "TypeScript"}, response.Languages)
		assert.False(t, response.UploadedAt.Before(before))
		assert.NotEmpty(t, w.Header().Get("Location"))
	})

	t.Run("rejects an unknown category", func(t *testing.T) {
		handler := newProjectHandlerForTest(newFakeProjectRepo(), newFakeReviewRepo())
		claims := claimsFor(3, false)
		body := map[string]any{"name": "x", "category": "firmware", "price": 1.0}

		w := httptest.NewRecorder()
		handler.createProject()(w, newTestRequest(http.MethodPost, "/api/project/createproject", body, nil, &claims))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects a missing price", func(t *testing.T) {
		handler := newProjectHandlerForTest(newFakeProjectRepo(), newFakeReviewRepo())
		claims := claimsFor(3, false)
		body := map[string]any{"name": "x", "category": "game"}

		w := httptest.NewRecorder()
		handler.createProject()(w, newTestRequest(http.MethodPost, "/api/project/createproject", body, nil, &claims))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateProject(t *testing.T) {
	seedProject := func(projects *fakeProjectRepo) *models.Project {
		return projects.seed(models.Project{
			Name:       "Old Name",
			Category:   models.CategoryGame,
			Price:      10,
			OwnerID:    3,
			Permission: models.PermissionApproved,
		})
	}
	body := map[string]any{"name": "New Name", "category": "game", "price": 25.0}

	t.Run("owner can update, permission survives", func(t *testing.T) {
		projects := newFakeProjectRepo()
		project := seedProject(projects)
		handler := newProjectHandlerForTest(projects, newFakeReviewRepo())
		claims := claimsFor(3, false)

		w := httptest.NewRecorder()
		handler.updateProject()(w, newTestRequest(http.MethodPut, "/api/project/update/1", body,
			map[string]string{"projectID": "1"}, &claims))

		require.Equal(t, http.StatusOK, w.Code)
		response := decodeResponse[ProjectResponse](t, w)
		assert.Equal(t, "New Name", response.Name)
		assert.Equal(t, 25.0, response.Price)
		assert.Equal(t, models.PermissionApproved, response.Permission)
		assert.Equal(t, project.ID, response.ID)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		projects := newFakeProjectRepo()
		seedProject(projects)
		handler := newProjectHandlerForTest(projects, newFakeReviewRepo())
		claims := claimsFor(99, false)

		w := httptest.NewRecorder()
		handler.updateProject()(w, newTestRequest(http.MethodPut, "/api/project/update/1", body,
			map[string]string{"projectID": "1"}, &claims))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin can update any project", func(t *testing.T) {
		projects := newFakeProjectRepo()
		seedProject(projects)
		handler := newProjectHandlerForTest(projects, newFakeReviewRepo())
		claims := claimsFor(99, true)

		w := httptest.NewRecorder()
		handler.updateProject()(w, newTestRequest(http.MethodPut, "/api/project/update/1", body,
			map[string]string{"projectID": "1"}, &claims))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestFilterByRating(t *testing.T) {
	projects := newFakeProjectRepo()
	projects.seed(models.Project{Name: "great", Reviews: []models.Review{{Rating: 5}}})
	projects.seed(models.Project{Name: "poor", Reviews: []models.Review{{Rating: 1}}})
	handler := newProjectHandlerForTest(projects, newFakeReviewRepo())

	t.Run("keeps projects at or above the threshold", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.filterByRating()(w, newTestRequest(http.MethodGet, "/api/project/filter/rating?rating=4", nil, nil, nil))

		require.Equal(t, http.StatusOK, w.Code)
		response := decodeResponse[[]ProjectResponse](t, w)
		require.Len(t, response, 1)
		assert.Equal(t, "great", response[0].Name)
	})

	t.Run("no matches is an empty list, not 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.filterByRating()(w, newTestRequest(http.MethodGet, "/api/project/filter/rating?rating=5", nil, nil, nil))

		require.Equal(t, http.StatusOK, w.Code)
		response := decodeResponse[[]ProjectResponse](t, w)
		require.Len(t, response, 1)

		w = httptest.NewRecorder()
		handler.filterByRating()(w, newTestRequest(http.MethodGet, "/api/project/filter/rating?rating=4.9", nil, nil, nil))
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects an out-of-range threshold", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.filterByRating()(w, newTestRequest(http.MethodGet, "/api/project/filter/rating?rating=6", nil, nil, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetFeaturedProjects(t *testing.T) {
	now := time.Now().UTC()
	projects := newFakeProjectRepo()
	projects.seed(models.Project{Name: "rejected", Permission: models.PermissionRejected, Reviews: []models.Review{{Rating: 5}}})
	projects.seed(models.Project{Name: "top", Permission: models.PermissionApproved, Reviews: []models.Review{{Rating: 5}}, UploadedAt: now})
	projects.seed(models.Project{Name: "second", Permission: models.PermissionApproved, Reviews: []models.Review{{Rating: 4}}})
	projects.seed(models.Project{Name: "third", Permission: models.PermissionPending, Reviews: []models.Review{{Rating: 3}}})
	handler := newProjectHandlerForTest(projects, newFakeReviewRepo())

	t.Run("orders by rating and excludes rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.getFeaturedProjects()(w, newTestRequest(http.MethodGet, "/api/project/featured", nil, nil, nil))

		require.Equal(t, http.StatusOK, w.Code)
		response := decodeResponse[[]ProjectResponse](t, w)
		require.Len(t, response, 3)
		assert.Equal(t, "top", response[0].Name)
		assert.Equal(t, "second", response[1].Name)
		assert.Equal(t, "third", response[2].Name)
	})

	t.Run("count query truncates the list", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.getFeaturedProjects()(w, newTestRequest(http.MethodGet, "/api/project/featured?count=2", nil, nil, nil))

		require.Equal(t, http.StatusOK, w.Code)
		response := decodeResponse[[]ProjectResponse](t, w)
		assert.Len(t, response, 2)
	})

	t.Run("rejects a non-positive count", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.getFeaturedProjects()(w, newTestRequest(http.MethodGet, "/api/project/featured?count=0", nil, nil, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSetPermission(t *testing.T) {
	projects := newFakeProjectRepo()
	projects.seed(models.Project{Name: "pending", Permission: models.PermissionPending})
	handler := newProjectHandlerForTest(projects, newFakeReviewRepo())

	w := httptest.NewRecorder()
	handler.approveProject()(w, newTestRequest(http.MethodGet, "/api/project/approve/1", nil,
		map[string]string{"projectID": "1"}, nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.PermissionApproved, projects.projects[1].Permission)

	w = httptest.NewRecorder()
	handler.rejectProject()(w, newTestRequest(http.MethodGet, "/api/project/reject/1", nil,
		map[string]string{"projectID": "1"}, nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.PermissionRejected, projects.projects[1].Permission)
}

func TestGetProjectRevenue(t *testing.T) {
	projects := newFakeProjectRepo()
	projects.seed(models.Project{Name: "app", Price: 20, OwnerID: 3})
	march := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	june := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	projects.completedOrders[1] = []time.Time{march, march, june}
	handler := newProjectHandlerForTest(projects, newFakeReviewRepo())
	claims := claimsFor(3, false)

	t.Run("multiplies completed orders by the current price", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.getProjectRevenue()(w, newTestRequest(http.MethodGet, "/api/project/revenue/1", nil,
			map[string]string{"projectID": "1"}, &claims))

		require.Equal(t, http.StatusOK, w.Code)
		response := decodeResponse[RevenueResponse](t, w)
		assert.Equal(t, int64(3), response.CompletedOrders)
		assert.Equal(t, 60.0, response.Revenue)
	})

	t.Run("month filter counts by calendar month", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.getProjectRevenueForMonth()(w, newTestRequest(http.MethodGet, "/api/project/revenue/1/3", nil,
			map[string]string{"projectID": "1", "month": "3"}, &claims))

		require.Equal(t, http.StatusOK, w.Code)
		response := decodeResponse[RevenueResponse](t, w)
		assert.Equal(t, int64(2), response.CompletedOrders)
		assert.Equal(t, 40.0, response.Revenue)
	})

	t.Run("rejects an invalid month", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.getProjectRevenueForMonth()(w, newTestRequest(http.MethodGet, "/api/project/revenue/1/13", nil,
			map[string]string{"projectID": "1", "month": "13"}, &claims))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		other := claimsFor(99, false)
		w := httptest.NewRecorder()
		handler.getProjectRevenue()(w, newTestRequest(http.MethodGet, "/api/project/revenue/1", nil,
			map[string]string{"projectID": "1"}, &other))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestGetOwnerRating(t *testing.T) {
	projects := newFakeProjectRepo()
	projects.seed(models.Project{OwnerID: 3, Reviews: []models.Review{{Rating: 5}, {Rating: 5}}})
	projects.seed(models.Project{OwnerID: 3, Reviews: []models.Review{{Rating: 2}}})
	handler := newProjectHandlerForTest(projects, newFakeReviewRepo())

	w := httptest.NewRecorder()
	handler.getOwnerRating()(w, newTestRequest(http.MethodGet, "/api/project/ownerrating/3", nil,
		map[string]string{"userID": "3"}, nil))

	require.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse[map[string]any](t, w)
	assert.Equal(t, 3.5, response["rating"])
}

func TestGetCategories(t *testing.T) {
	handler := newProjectHandlerForTest(newFakeProjectRepo(), newFakeReviewRepo())

	w := httptest.NewRecorder()
	handler.getCategories()(w, newTestRequest(http.MethodGet, "/api/project/categories", nil, nil, nil))

	require.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse[[]CategoryResponse](t, w)
	require.Len(t, response, len(models.Categories()))
	assert.Equal(t, models.CategoryWebApplication, response[0].Value)
	assert.Equal(t, "Web Application", response[0].Label)
}

func TestSearchProjects(t *testing.T) {
	projects := newFakeProjectRepo()
	projects.seed(models.Project{Name: "Chess Engine"})
	projects.seed(models.Project{Name: "Todo App"})
	handler := newProjectHandlerForTest(projects, newFakeReviewRepo())

	t.Run("matches case-insensitively", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.searchProjects()(w, newTestRequest(http.MethodGet, "/api/project/searchprojects?name=chess", nil, nil, nil))

		require.Equal(t, http.StatusOK, w.Code)
		response := decodeResponse[[]ProjectResponse](t, w)
		require.Len(t, response, 1)
		assert.Equal(t, "Chess Engine", response[0].Name)
	})

	t.Run("missing name is a bad request", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.searchProjects()(w, newTestRequest(http.MethodGet, "/api/project/searchprojects", nil, nil, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
