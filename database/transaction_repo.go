package database

import (
	"gorm.io/gorm"

	"github.com/codemart-app/backend/errs"
	"github.com/codemart-app/backend/models"
)

type TransactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) *TransactionRepo {
	return &TransactionRepo{db}
}

func (r *TransactionRepo) FindAll() ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Preload("Order").Find(&transactions).Error; err != nil {
		return nil, errs.FromDatabase("find", "transactions", err)
	}
	return transactions, nil
}

func (r *TransactionRepo) FindByID(id uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.Preload("Order").First(&transaction, id).Error; err != nil {
		return nil, errs.FromDatabase("find", "transaction", err)
	}
	return &transaction, nil
}

func (r *TransactionRepo) FindByStatus(status models.TransactionStatus) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.Preload("Order").
		Where("status = ?", status).
		Find(&transactions).Error
	if err != nil {
		return nil, errs.FromDatabase("find", "transactions", err)
	}
	return transactions, nil
}

func (r *TransactionRepo) Add(transaction *models.Transaction) error {
	if err := r.db.Create(transaction).Error; err != nil {
		return errs.FromDatabase("create", "transaction", err)
	}
	return nil
}

func (r *TransactionRepo) UpdateFields(transaction *models.Transaction) error {
	err := r.db.Model(&models.Transaction{}).
		Where("id = ?", transaction.ID).
		Select("external_id", "method", "amount", "status").
		Updates(transaction).Error
	if err != nil {
		return errs.FromDatabase("update", "transaction", err)
	}
	return nil
}

func (r *TransactionRepo) Delete(id uint) error {
	if err := r.db.Delete(&models.Transaction{}, id).Error; err != nil {
		return errs.FromDatabase("delete", "transaction", err)
	}
	return nil
}

// ProcessPayment updates the status. A transition to Success also marks the
// parent order completed; no transition is otherwise constrained, and moving
// away from Success does not un-complete the order.
func (r *TransactionRepo) ProcessPayment(id uint, status models.TransactionStatus) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.First(&transaction, id).Error; err != nil {
		return nil, errs.FromDatabase("find", "transaction", err)
	}

	transaction.Status = status
	if err := r.db.Model(&transaction).Update("status", status).Error; err != nil {
		return nil, errs.FromDatabase("update", "transaction", err)
	}

	if status == models.TransactionSuccess {
		err := r.db.Model(&models.Order{}).
			Where("id = ?", transaction.OrderID).
			Update("completed", true).Error
		if err != nil {
			return nil, errs.FromDatabase("update", "order", err)
		}
	}

	return &transaction, nil
}
