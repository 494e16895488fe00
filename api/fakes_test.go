package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/codemart-app/backend/auth"
	"github.com/codemart-app/backend/errs"
	"github.com/codemart-app/backend/models"
)

// In-memory repository fakes. They return the same *errs.ApiErr shapes the
// GORM-backed repositories do, so handlers behave identically under test.

type fakeProjectRepo struct {
	projects map[uint]*models.Project
	buyers   map[uint][]models.User
	// completed order timestamps per project, for revenue counts
	completedOrders map[uint][]time.Time
	nextID          uint
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		projects:        map[uint]*models.Project{},
		buyers:          map[uint][]models.User{},
		completedOrders: map[uint][]time.Time{},
		nextID:          1,
	}
}

func (f *fakeProjectRepo) seed(project models.Project) *models.Project {
	if project.ID == 0 {
		project.ID = f.nextID
	}
	if project.ID >= f.nextID {
		f.nextID = project.ID + 1
	}
	stored := project
	f.projects[stored.ID] = &stored
	return &stored
}

func (f *fakeProjectRepo) all() []models.Project {
	ids := make([]uint, 0, len(f.projects))
	for id := range f.projects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	projects := make([]models.Project, 0, len(ids))
	for _, id := range ids {
		projects = append(projects, *f.projects[id])
	}
	return projects
}

func (f *fakeProjectRepo) FindAllWithReviews() ([]models.Project, error) {
	return f.all(), nil
}

func (f *fakeProjectRepo) FindByIDWithReviews(id uint) (*models.Project, error) {
	project, ok := f.projects[id]
	if !ok {
		return nil, errs.NewNotFoundError("project not found")
	}
	copied := *project
	return &copied, nil
}

func (f *fakeProjectRepo) FindByOwner(ownerID uint) ([]models.Project, error) {
	matched := []models.Project{}
	for _, project := range f.all() {
		if project.OwnerID == ownerID {
			matched = append(matched, project)
		}
	}
	return matched, nil
}

func (f *fakeProjectRepo) FindByCategory(category models.Category) ([]models.Project, error) {
	matched := []models.Project{}
	for _, project := range f.all() {
		if project.Category == category {
			matched = append(matched, project)
		}
	}
	return matched, nil
}

func (f *fakeProjectRepo) FindByPriceRange(min, max float64) ([]models.Project, error) {
	matched := []models.Project{}
	for _, project := range f.all() {
		if project.Price >= min && project.Price <= max {
			matched = append(matched, project)
		}
	}
	return matched, nil
}

func (f *fakeProjectRepo) FindByPermission(permission models.Permission) ([]models.Project, error) {
	matched := []models.Project{}
	for _, project := range f.all() {
		if project.Permission == permission {
			matched = append(matched, project)
		}
	}
	return matched, nil
}

func (f *fakeProjectRepo) SearchByName(name string) ([]models.Project, error) {
	matched := []models.Project{}
	for _, project := range f.all() {
		if strings.Contains(strings.ToLower(project.Name), strings.ToLower(name)) {
			matched = append(matched, project)
		}
	}
	return matched, nil
}

func (f *fakeProjectRepo) SortedByPrice() ([]models.Project, error) {
	projects := f.all()
	sort.Slice(projects, func(i, j int) bool { return projects[i].Price < projects[j].Price })
	return projects, nil
}

func (f *fakeProjectRepo) Add(project *models.Project) error {
	project.ID = f.nextID
	f.nextID++
	stored := *project
	f.projects[stored.ID] = &stored
	return nil
}

func (f *fakeProjectRepo) UpdateFields(project *models.Project) error {
	stored, ok := f.projects[project.ID]
	if !ok {
		return errs.NewNotFoundError("project not found")
	}
	permission := stored.Permission
	updated := *project
	updated.Permission = permission
	f.projects[project.ID] = &updated
	return nil
}

func (f *fakeProjectRepo) Delete(id uint) error {
	if _, ok := f.projects[id]; !ok {
		return errs.NewNotFoundError("project not found")
	}
	delete(f.projects, id)
	return nil
}

func (f *fakeProjectRepo) SetPermission(id uint, permission models.Permission) error {
	project, ok := f.projects[id]
	if !ok {
		return errs.NewNotFoundError("project not found")
	}
	project.Permission = permission
	return nil
}

func (f *fakeProjectRepo) Buyers(projectID uint) ([]models.User, error) {
	return f.buyers[projectID], nil
}

func (f *fakeProjectRepo) CompletedOrderCount(projectID uint) (int64, error) {
	return int64(len(f.completedOrders[projectID])), nil
}

func (f *fakeProjectRepo) CompletedOrderCountInMonth(projectID uint, month int) (int64, error) {
	count := int64(0)
	for _, orderedAt := range f.completedOrders[projectID] {
		if int(orderedAt.Month()) == month {
			count++
		}
	}
	return count, nil
}

type fakeUserRepo struct {
	users    map[uint]*models.User
	wishlist map[uint]map[uint]bool
	cart     map[uint]map[uint]bool
	bought   map[uint]map[uint]bool
	orders   []models.Order
	projects *fakeProjectRepo
	nextID   uint
}

func newFakeUserRepo(projects *fakeProjectRepo) *fakeUserRepo {
	return &fakeUserRepo{
		users:    map[uint]*models.User{},
		wishlist: map[uint]map[uint]bool{},
		cart:     map[uint]map[uint]bool{},
		bought:   map[uint]map[uint]bool{},
		projects: projects,
		nextID:   1,
	}
}

func (f *fakeUserRepo) seed(user models.User) *models.User {
	if user.ID == 0 {
		user.ID = f.nextID
	}
	if user.ID >= f.nextID {
		f.nextID = user.ID + 1
	}
	stored := user
	f.users[stored.ID] = &stored
	return &stored
}

func (f *fakeUserRepo) FindAll() ([]models.User, error) {
	ids := make([]uint, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, *f.users[id])
	}
	return users, nil
}

func (f *fakeUserRepo) FindByID(id uint) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, errs.NewNotFoundError("user not found")
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) FindByIDWithOrders(id uint) (*models.User, error) {
	user, err := f.FindByID(id)
	if err != nil {
		return nil, err
	}
	for _, order := range f.orders {
		if order.UserID == id {
			user.Orders = append(user.Orders, order)
		}
	}
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errs.NewNotFoundError("user not found")
}

func (f *fakeUserRepo) Add(user *models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return errs.NewConflictError("user already exists")
		}
	}
	user.ID = f.nextID
	f.nextID++
	stored := *user
	f.users[stored.ID] = &stored
	return nil
}

func (f *fakeUserRepo) Update(user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return errs.NewNotFoundError("user not found")
	}
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) Delete(id uint) error {
	if _, ok := f.users[id]; !ok {
		return errs.NewNotFoundError("user not found")
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) members(set map[uint]map[uint]bool, userID uint) ([]models.Project, error) {
	projects := []models.Project{}
	for _, project := range f.projects.all() {
		if set[userID][project.ID] {
			projects = append(projects, project)
		}
	}
	return projects, nil
}

func (f *fakeUserRepo) addMember(set map[uint]map[uint]bool, userID, projectID uint) (bool, error) {
	if set[userID] == nil {
		set[userID] = map[uint]bool{}
	}
	if set[userID][projectID] {
		return false, nil
	}
	set[userID][projectID] = true
	return true, nil
}

func (f *fakeUserRepo) removeMember(set map[uint]map[uint]bool, userID, projectID uint) (bool, error) {
	if !set[userID][projectID] {
		return false, nil
	}
	delete(set[userID], projectID)
	return true, nil
}

func (f *fakeUserRepo) Wishlist(userID uint) ([]models.Project, error) {
	return f.members(f.wishlist, userID)
}

func (f *fakeUserRepo) AddToWishlist(userID, projectID uint) (bool, error) {
	return f.addMember(f.wishlist, userID, projectID)
}

func (f *fakeUserRepo) RemoveFromWishlist(userID, projectID uint) (bool, error) {
	return f.removeMember(f.wishlist, userID, projectID)
}

func (f *fakeUserRepo) Cart(userID uint) ([]models.Project, error) {
	return f.members(f.cart, userID)
}

func (f *fakeUserRepo) AddToCart(userID, projectID uint) (bool, error) {
	return f.addMember(f.cart, userID, projectID)
}

func (f *fakeUserRepo) RemoveFromCart(userID, projectID uint) (bool, error) {
	return f.removeMember(f.cart, userID, projectID)
}

func (f *fakeUserRepo) Bought(userID uint) ([]models.Project, error) {
	return f.members(f.bought, userID)
}

func (f *fakeUserRepo) BuyProject(userID, projectID uint, amount float64, allowRepeat bool) (*models.Order, error) {
	added, _ := f.addMember(f.bought, userID, projectID)
	if !added && !allowRepeat {
		return nil, errs.NewConflictError("project already bought")
	}

	order := models.Order{
		ID:        uint(len(f.orders) + 1),
		UserID:    userID,
		ProjectID: projectID,
		Amount:    amount,
		OrderedAt: time.Now().UTC(),
		Completed: true,
	}
	f.orders = append(f.orders, order)
	return &order, nil
}

func (f *fakeUserRepo) SellerOrders(userID uint, month int) ([]models.Order, error) {
	matched := []models.Order{}
	for _, order := range f.orders {
		project, ok := f.projects.projects[order.ProjectID]
		if !ok || project.OwnerID != userID || !order.Completed {
			continue
		}
		if month != 0 && int(order.OrderedAt.Month()) != month {
			continue
		}
		matched = append(matched, order)
	}
	return matched, nil
}

type fakeReviewRepo struct {
	reviews map[uint]*models.Review
	nextID  uint
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[uint]*models.Review{}, nextID: 1}
}

func (f *fakeReviewRepo) FindAll() ([]models.Review, error) {
	ids := make([]uint, 0, len(f.reviews))
	for id := range f.reviews {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	reviews := make([]models.Review, 0, len(ids))
	for _, id := range ids {
		reviews = append(reviews, *f.reviews[id])
	}
	return reviews, nil
}

func (f *fakeReviewRepo) FindByID(id uint) (*models.Review, error) {
	review, ok := f.reviews[id]
	if !ok {
		return nil, errs.NewNotFoundError("review not found")
	}
	copied := *review
	return &copied, nil
}

func (f *fakeReviewRepo) FindByProject(projectID uint) ([]models.Review, error) {
	matched := []models.Review{}
	all, _ := f.FindAll()
	for _, review := range all {
		if review.ProjectID == projectID {
			matched = append(matched, review)
		}
	}
	return matched, nil
}

func (f *fakeReviewRepo) FindByUserAndProject(userID, projectID uint) (*models.Review, error) {
	for _, review := range f.reviews {
		if review.UserID == userID && review.ProjectID == projectID {
			copied := *review
			return &copied, nil
		}
	}
	return nil, errs.NewNotFoundError("review not found")
}

func (f *fakeReviewRepo) Add(review *models.Review) error {
	review.ID = f.nextID
	f.nextID++
	stored := *review
	f.reviews[stored.ID] = &stored
	return nil
}

func (f *fakeReviewRepo) UpdateFields(review *models.Review) error {
	if _, ok := f.reviews[review.ID]; !ok {
		return errs.NewNotFoundError("review not found")
	}
	stored := *review
	f.reviews[review.ID] = &stored
	return nil
}

func (f *fakeReviewRepo) Delete(id uint) error {
	if _, ok := f.reviews[id]; !ok {
		return errs.NewNotFoundError("review not found")
	}
	delete(f.reviews, id)
	return nil
}

type fakeOrderRepo struct {
	orders map[uint]*models.Order
	nextID uint
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uint]*models.Order{}, nextID: 1}
}

func (f *fakeOrderRepo) seed(order models.Order) *models.Order {
	if order.ID == 0 {
		order.ID = f.nextID
	}
	if order.ID >= f.nextID {
		f.nextID = order.ID + 1
	}
	stored := order
	f.orders[stored.ID] = &stored
	return &stored
}

func (f *fakeOrderRepo) FindAll() ([]models.Order, error) {
	ids := make([]uint, 0, len(f.orders))
	for id := range f.orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	orders := make([]models.Order, 0, len(ids))
	for _, id := range ids {
		orders = append(orders, *f.orders[id])
	}
	return orders, nil
}

func (f *fakeOrderRepo) FindByID(id uint) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, errs.NewNotFoundError("order not found")
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderRepo) FindByUser(userID uint) ([]models.Order, error) {
	matched := []models.Order{}
	all, _ := f.FindAll()
	for _, order := range all {
		if order.UserID == userID {
			matched = append(matched, order)
		}
	}
	return matched, nil
}

func (f *fakeOrderRepo) Add(order *models.Order) error {
	order.ID = f.nextID
	f.nextID++
	stored := *order
	f.orders[stored.ID] = &stored
	return nil
}

func (f *fakeOrderRepo) UpdateFields(order *models.Order) error {
	if _, ok := f.orders[order.ID]; !ok {
		return errs.NewNotFoundError("order not found")
	}
	stored := *order
	f.orders[order.ID] = &stored
	return nil
}

func (f *fakeOrderRepo) Delete(id uint) error {
	if _, ok := f.orders[id]; !ok {
		return errs.NewNotFoundError("order not found")
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeOrderRepo) MarkCompleted(id uint) error {
	order, ok := f.orders[id]
	if !ok {
		return errs.NewNotFoundError("order not found")
	}
	order.Completed = true
	return nil
}

type fakeTransactionRepo struct {
	transactions map[uint]*models.Transaction
	orders       *fakeOrderRepo
	nextID       uint
}

func newFakeTransactionRepo(orders *fakeOrderRepo) *fakeTransactionRepo {
	return &fakeTransactionRepo{
		transactions: map[uint]*models.Transaction{},
		orders:       orders,
		nextID:       1,
	}
}

func (f *fakeTransactionRepo) FindAll() ([]models.Transaction, error) {
	ids := make([]uint, 0, len(f.transactions))
	for id := range f.transactions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	transactions := make([]models.Transaction, 0, len(ids))
	for _, id := range ids {
		transactions = append(transactions, *f.transactions[id])
	}
	return transactions, nil
}

func (f *fakeTransactionRepo) FindByID(id uint) (*models.Transaction, error) {
	transaction, ok := f.transactions[id]
	if !ok {
		return nil, errs.NewNotFoundError("transaction not found")
	}
	copied := *transaction
	return &copied, nil
}

func (f *fakeTransactionRepo) FindByStatus(status models.TransactionStatus) ([]models.Transaction, error) {
	matched := []models.Transaction{}
	all, _ := f.FindAll()
	for _, transaction := range all {
		if transaction.Status == status {
			matched = append(matched, transaction)
		}
	}
	return matched, nil
}

func (f *fakeTransactionRepo) Add(transaction *models.Transaction) error {
	transaction.ID = f.nextID
	f.nextID++
	stored := *transaction
	f.transactions[stored.ID] = &stored
	return nil
}

func (f *fakeTransactionRepo) UpdateFields(transaction *models.Transaction) error {
	if _, ok := f.transactions[transaction.ID]; !ok {
		return errs.NewNotFoundError("transaction not found")
	}
	stored := *transaction
	f.transactions[transaction.ID] = &stored
	return nil
}

func (f *fakeTransactionRepo) Delete(id uint) error {
	if _, ok := f.transactions[id]; !ok {
		return errs.NewNotFoundError("transaction not found")
	}
	delete(f.transactions, id)
	return nil
}

func (f *fakeTransactionRepo) ProcessPayment(id uint, status models.TransactionStatus) (*models.Transaction, error) {
	transaction, ok := f.transactions[id]
	if !ok {
		return nil, errs.NewNotFoundError("transaction not found")
	}
	transaction.Status = status
	if status == models.TransactionSuccess {
		if order, ok := f.orders.orders[transaction.OrderID]; ok {
			order.Completed = true
		}
	}
	copied := *transaction
	return &copied, nil
}

// Request helpers

func claimsFor(userID uint, admin bool) auth.Claims {
	return auth.Claims{
		Admin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: strconv.FormatUint(uint64(userID), 10),
		},
	}
}

// newTestRequest builds a request with chi URL params and, when claims are
// given, an authenticated context.
func newTestRequest(method, target string, body any, params map[string]string, claims *auth.Claims) *http.Request {
	var reader *bytes.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, target, reader)

	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	if claims != nil {
		ctx = ctxWithClaims(ctx, *claims)
	}
	return r.WithContext(ctx)
}

func decodeResponse[T any](t interface{ Fatalf(string, ...any) }, w *httptest.ResponseRecorder) T {
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	return out
}
