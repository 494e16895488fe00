package api

import (
	"github.com/codemart-app/backend/auth"
	"github.com/codemart-app/backend/config"
	"github.com/codemart-app/backend/database"
	"github.com/codemart-app/backend/services/googleauth"
	"github.com/codemart-app/backend/services/payment"
	"github.com/codemart-app/backend/services/storage"
)

// Deps carries the external collaborators handlers need beyond the database.
type Deps struct {
	Config   config.Config
	Tokens   auth.TokenService
	Google   googleauth.Verifier
	Payments *payment.Client
	Storage  *storage.Client
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, deps Deps) *routeHandlers {
	return &routeHandlers{
		authHandler:        newAuthHandler(db.UserRepo(), deps.Tokens, deps.Google),
		userHandler:        newUserHandler(db.UserRepo(), db.ProjectRepo(), deps.Payments, deps.Config.AllowRepeatPurchase),
		projectHandler:     newProjectHandler(db.ProjectRepo(), db.ReviewRepo(), deps.Storage, deps.Config.SupabaseBucket),
		reviewHandler:      newReviewHandler(db.ReviewRepo(), db.ProjectRepo(), db.UserRepo()),
		orderHandler:       newOrderHandler(db.OrderRepo(), db.UserRepo(), db.ProjectRepo()),
		transactionHandler: newTransactionHandler(db.TransactionRepo(), db.OrderRepo()),
	}
}
