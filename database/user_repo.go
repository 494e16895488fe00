package database

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codemart-app/backend/errs"
	"github.com/codemart-app/backend/models"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

func (r *UserRepo) FindAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Find(&users).Error; err != nil {
		return nil, errs.FromDatabase("find", "users", err)
	}
	return users, nil
}

func (r *UserRepo) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, errs.FromDatabase("find", "user", err)
	}
	return &user, nil
}

func (r *UserRepo) FindByIDWithOrders(id uint) (*models.User, error) {
	var user models.User
	err := r.db.
		Preload("Orders").
		Preload("Orders.Project").
		First(&user, id).Error
	if err != nil {
		return nil, errs.FromDatabase("find", "user", err)
	}
	return &user, nil
}

func (r *UserRepo) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, errs.FromDatabase("find", "user", err)
	}
	return &user, nil
}

func (r *UserRepo) Add(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return errs.FromDatabase("create", "user", err)
	}
	return nil
}

func (r *UserRepo) Update(user *models.User) error {
	err := r.db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Select("first_name", "last_name", "email", "password_hash", "occupation", "company", "profile_picture").
		Updates(user).Error
	if err != nil {
		return errs.FromDatabase("update", "user", err)
	}
	return nil
}

func (r *UserRepo) Delete(id uint) error {
	if err := r.db.Select(clause.Associations).Delete(&models.User{ID: id}).Error; err != nil {
		return errs.FromDatabase("delete", "user", err)
	}
	return nil
}

// Wishlist / cart membership. Adds are single conditional inserts against
// the join table so concurrent requests cannot create duplicates.

func (r *UserRepo) Wishlist(userID uint) ([]models.Project, error) {
	return r.memberProjects("wishlist_projects", userID)
}

func (r *UserRepo) AddToWishlist(userID, projectID uint) (bool, error) {
	return r.addMembership("wishlist_projects", userID, projectID)
}

func (r *UserRepo) RemoveFromWishlist(userID, projectID uint) (bool, error) {
	return r.removeMembership("wishlist_projects", userID, projectID)
}

func (r *UserRepo) Cart(userID uint) ([]models.Project, error) {
	return r.memberProjects("cart_projects", userID)
}

func (r *UserRepo) AddToCart(userID, projectID uint) (bool, error) {
	return r.addMembership("cart_projects", userID, projectID)
}

func (r *UserRepo) RemoveFromCart(userID, projectID uint) (bool, error) {
	return r.removeMembership("cart_projects", userID, projectID)
}

func (r *UserRepo) Bought(userID uint) ([]models.Project, error) {
	return r.memberProjects("bought_projects", userID)
}

func (r *UserRepo) memberProjects(joinTable string, userID uint) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.
		Joins("JOIN "+joinTable+" jt ON jt.project_id = projects.id").
		Where("jt.user_id = ?", userID).
		Find(&projects).Error
	if err != nil {
		return nil, errs.FromDatabase("find", "projects", err)
	}
	return projects, nil
}

func (r *UserRepo) addMembership(joinTable string, userID, projectID uint) (bool, error) {
	res := r.db.Exec(
		"INSERT INTO "+joinTable+" (user_id, project_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		userID, projectID,
	)
	if res.Error != nil {
		return false, errs.FromDatabase("create", "membership", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *UserRepo) removeMembership(joinTable string, userID, projectID uint) (bool, error) {
	res := r.db.Exec(
		"DELETE FROM "+joinTable+" WHERE user_id = ? AND project_id = ?",
		userID, projectID,
	)
	if res.Error != nil {
		return false, errs.FromDatabase("delete", "membership", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// BuyProject wraps add-to-bought-set and order insertion in one database
// transaction, the only multi-write unit in the system.
func (r *UserRepo) BuyProject(userID, projectID uint, amount float64, allowRepeat bool) (*models.Order, error) {
	var order models.Order
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			"INSERT INTO bought_projects (user_id, project_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
			userID, projectID,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 && !allowRepeat {
			return errs.NewAlreadyExists("purchase")
		}

		order = models.Order{
			UserID:    userID,
			ProjectID: projectID,
			Amount:    amount,
			OrderedAt: time.Now().UTC(),
			Completed: true,
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		if errs.IsConflict(err) {
			return nil, err
		}
		return nil, errs.FromDatabase("create", "purchase", err)
	}
	return &order, nil
}

func (r *UserRepo) SellerOrders(userID uint, month int) ([]models.Order, error) {
	query := r.db.
		Joins("JOIN projects ON projects.id = orders.project_id").
		Where("projects.owner_id = ? AND orders.completed", userID)
	if month > 0 {
		query = query.Where("EXTRACT(MONTH FROM orders.ordered_at) = ?", month)
	}

	var orders []models.Order
	err := query.
		Preload("Project").
		Preload("User").
		Preload("Transaction").
		Find(&orders).Error
	if err != nil {
		return nil, errs.FromDatabase("find", "orders", err)
	}
	return orders, nil
}
