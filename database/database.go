package database

import (
	"gorm.io/gorm"

	"github.com/codemart-app/backend/models"
)

type Database struct {
	userRepo        UserRepository
	projectRepo     ProjectRepository
	reviewRepo      ReviewRepository
	orderRepo       OrderRepository
	transactionRepo TransactionRepository
}

// New initializes a new Database struct with each repository using a shared
// GORM database instance.
func New(db *gorm.DB) Database {
	return Database{
		userRepo:        NewUserRepo(db),
		projectRepo:     NewProjectRepo(db),
		reviewRepo:      NewReviewRepo(db),
		orderRepo:       NewOrderRepo(db),
		transactionRepo: NewTransactionRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() UserRepository {
	return d.userRepo
}

func (d Database) ProjectRepo() ProjectRepository {
	return d.projectRepo
}

func (d Database) ReviewRepo() ReviewRepository {
	return d.reviewRepo
}

func (d Database) OrderRepo() OrderRepository {
	return d.orderRepo
}

func (d Database) TransactionRepo() TransactionRepository {
	return d.transactionRepo
}

// Migrate creates or updates the schema for every entity, including the
// three many-to-many join tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Review{},
		&models.Order{},
		&models.Transaction{},
	)
}
