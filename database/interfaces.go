package database

import "github.com/codemart-app/backend/models"

// Repository interfaces name exactly which related entities each query
// returns, so handlers never depend on hidden preloads. Errors returned by
// implementations are *errs.ApiErr values carrying the HTTP status a client
// should see.

type UserRepository interface {
	FindAll() ([]models.User, error)
	FindByID(id uint) (*models.User, error)
	// FindByIDWithOrders loads the profile plus the user's orders with each
	// order's project.
	FindByIDWithOrders(id uint) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	Add(user *models.User) error
	Update(user *models.User) error
	Delete(id uint) error

	// Wishlist and cart return bare projects. Add is a single conditional
	// insert reporting whether a row was written; Remove reports whether a
	// row existed.
	Wishlist(userID uint) ([]models.Project, error)
	AddToWishlist(userID, projectID uint) (bool, error)
	RemoveFromWishlist(userID, projectID uint) (bool, error)
	Cart(userID uint) ([]models.Project, error)
	AddToCart(userID, projectID uint) (bool, error)
	RemoveFromCart(userID, projectID uint) (bool, error)

	Bought(userID uint) ([]models.Project, error)
	// BuyProject atomically adds the project to the buyer's bought set and
	// inserts a completed order. With allowRepeat false, buying an
	// already-owned project returns a conflict.
	BuyProject(userID, projectID uint, amount float64, allowRepeat bool) (*models.Order, error)
	// SellerOrders returns completed orders across the user's owned
	// projects with Project, User (buyer) and Transaction loaded. A month
	// in [1,12] filters by the order's month component; 0 means all.
	SellerOrders(userID uint, month int) ([]models.Order, error)
}

type ProjectRepository interface {
	// Every Find* here loads Reviews so ratings can be computed.
	FindAllWithReviews() ([]models.Project, error)
	// FindByIDWithReviews additionally loads each review's author.
	FindByIDWithReviews(id uint) (*models.Project, error)
	FindByOwner(ownerID uint) ([]models.Project, error)
	FindByCategory(category models.Category) ([]models.Project, error)
	FindByPriceRange(min, max float64) ([]models.Project, error)
	FindByPermission(permission models.Permission) ([]models.Project, error)
	SearchByName(name string) ([]models.Project, error)
	SortedByPrice() ([]models.Project, error)

	Add(project *models.Project) error
	// UpdateFields writes the mutable whitelist only; Permission is never
	// touched by update.
	UpdateFields(project *models.Project) error
	Delete(id uint) error
	SetPermission(id uint, permission models.Permission) error

	Buyers(projectID uint) ([]models.User, error)
	CompletedOrderCount(projectID uint) (int64, error)
	// CompletedOrderCountInMonth counts by the order's month component,
	// ignoring year.
	CompletedOrderCountInMonth(projectID uint, month int) (int64, error)
}

type ReviewRepository interface {
	FindAll() ([]models.Review, error)
	FindByID(id uint) (*models.Review, error)
	// FindByProject loads each review's author for public display.
	FindByProject(projectID uint) ([]models.Review, error)
	FindByUserAndProject(userID, projectID uint) (*models.Review, error)
	Add(review *models.Review) error
	UpdateFields(review *models.Review) error
	Delete(id uint) error
}

type OrderRepository interface {
	// FindAll and FindByUser load Project and Transaction per order.
	FindAll() ([]models.Order, error)
	FindByID(id uint) (*models.Order, error)
	FindByUser(userID uint) ([]models.Order, error)
	Add(order *models.Order) error
	UpdateFields(order *models.Order) error
	Delete(id uint) error
	MarkCompleted(id uint) error
}

type TransactionRepository interface {
	FindAll() ([]models.Transaction, error)
	FindByID(id uint) (*models.Transaction, error)
	FindByStatus(status models.TransactionStatus) ([]models.Transaction, error)
	Add(transaction *models.Transaction) error
	UpdateFields(transaction *models.Transaction) error
	Delete(id uint) error
	// ProcessPayment sets the status; transitioning to Success also marks
	// the parent order completed.
	ProcessPayment(id uint, status models.TransactionStatus) (*models.Transaction, error)
}
