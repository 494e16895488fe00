package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codemart-app/backend/errs"
	"github.com/codemart-app/backend/models"
)

type OrderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) *OrderRepo {
	return &OrderRepo{db}
}

func (r *OrderRepo) FindAll() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Preload("Project").
		Preload("Transaction").
		Find(&orders).Error
	if err != nil {
		return nil, errs.FromDatabase("find", "orders", err)
	}
	return orders, nil
}

func (r *OrderRepo) FindByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.
		Preload("Project").
		Preload("Transaction").
		First(&order, id).Error
	if err != nil {
		return nil, errs.FromDatabase("find", "order", err)
	}
	return &order, nil
}

func (r *OrderRepo) FindByUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Preload("Project").
		Preload("Transaction").
		Where("user_id = ?", userID).
		Find(&orders).Error
	if err != nil {
		return nil, errs.FromDatabase("find", "orders", err)
	}
	return orders, nil
}

func (r *OrderRepo) Add(order *models.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		return errs.FromDatabase("create", "order", err)
	}
	return nil
}

func (r *OrderRepo) UpdateFields(order *models.Order) error {
	err := r.db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Select("amount", "completed").
		Updates(map[string]any{"amount": order.Amount, "completed": order.Completed}).Error
	if err != nil {
		return errs.FromDatabase("update", "order", err)
	}
	return nil
}

func (r *OrderRepo) Delete(id uint) error {
	if err := r.db.Select(clause.Associations).Delete(&models.Order{ID: id}).Error; err != nil {
		return errs.FromDatabase("delete", "order", err)
	}
	return nil
}

func (r *OrderRepo) MarkCompleted(id uint) error {
	err := r.db.Model(&models.Order{}).
		Where("id = ?", id).
		Update("completed", true).Error
	if err != nil {
		return errs.FromDatabase("update", "order", err)
	}
	return nil
}
