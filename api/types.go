package api

import (
	"time"

	"github.com/codemart-app/backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler        authHandler
	userHandler        userHandler
	projectHandler     projectHandler
	reviewHandler      reviewHandler
	orderHandler       orderHandler
	transactionHandler transactionHandler
}

// Response DTOs. Entities are never serialized directly; these control what
// leaves the API.

type TokenResponse struct {
	Token string `json:"token"`
}

type UserResponse struct {
	ID             uint   `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	IsAdmin        bool   `json:"isAdmin"`
	Occupation     string `json:"occupation"`
	Company        string `json:"company"`
	ProfilePicture string `json:"profilePicture"`
}

func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		FullName:       user.FullName(),
		Email:          user.Email,
		IsAdmin:        user.IsAdmin,
		Occupation:     user.Occupation,
		Company:        user.Company,
		ProfilePicture: user.ProfilePicture,
	}
}

type UserWithOrdersResponse struct {
	UserResponse
	Orders []OrderResponse `json:"orders"`
}

type ProjectResponse struct {
	ID            uint              `json:"id"`
	Name          string            `json:"name"`
	Category      models.Category   `json:"category"`
	CategoryLabel string            `json:"categoryLabel"`
	Description   string            `json:"description"`
	Price         float64           `json:"price"`
	FileURL       string            `json:"fileUrl"`
	VideoURL      *string           `json:"videoUrl,omitempty"`
	UploadedAt    time.Time         `json:"uploadedAt"`
	Permission    models.Permission `json:"permission"`
	Images        []string          `json:"images"`
	Languages     []string          `json:"languages"`
	Features      []string          `json:"features"`
	OwnerID       uint              `json:"ownerId"`
	Rating        float64           `json:"rating"`
	Reviews       []ReviewResponse  `json:"reviews,omitempty"`
}

// NewProjectResponse maps a project whose Reviews are loaded; the rating is
// computed here so every listing carries it.
func NewProjectResponse(project models.Project) ProjectResponse {
	return ProjectResponse{
		ID:            project.ID,
		Name:          project.Name,
		Category:      project.Category,
		CategoryLabel: project.Category.Label(),
		Description:   project.Description,
		Price:         project.Price,
		FileURL:       project.FileURL,
		VideoURL:      project.VideoURL,
		UploadedAt:    project.UploadedAt,
		Permission:    project.Permission,
		Images:        project.Images,
		Languages:     project.Languages,
		Features:      project.Features,
		OwnerID:       project.OwnerID,
		Rating:        project.Rating(),
	}
}

// NewProjectDetailResponse additionally maps the loaded reviews with their
// authors' public profiles.
func NewProjectDetailResponse(project models.Project) ProjectResponse {
	response := NewProjectResponse(project)
	response.Reviews = NewReviewResponses(project.Reviews)
	return response
}

func NewProjectResponses(projects []models.Project) []ProjectResponse {
	responses := make([]ProjectResponse, 0, len(projects))
	for _, project := range projects {
		responses = append(responses, NewProjectResponse(project))
	}
	return responses
}

type ReviewResponse struct {
	ID        uint          `json:"id"`
	ProjectID uint          `json:"projectId"`
	UserID    uint          `json:"userId"`
	Comment   string        `json:"comment"`
	Rating    int           `json:"rating"`
	CreatedAt time.Time     `json:"createdAt"`
	Reviewer  *UserResponse `json:"reviewer,omitempty"`
}

func NewReviewResponse(review models.Review) ReviewResponse {
	response := ReviewResponse{
		ID:        review.ID,
		ProjectID: review.ProjectID,
		UserID:    review.UserID,
		Comment:   review.Comment,
		Rating:    review.Rating,
		CreatedAt: review.CreatedAt,
	}
	if review.User != nil {
		reviewer := NewUserResponse(*review.User)
		response.Reviewer = &reviewer
	}
	return response
}

func NewReviewResponses(reviews []models.Review) []ReviewResponse {
	responses := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		responses = append(responses, NewReviewResponse(review))
	}
	return responses
}

type OrderResponse struct {
	ID          uint                 `json:"id"`
	UserID      uint                 `json:"userId"`
	ProjectID   uint                 `json:"projectId"`
	Amount      float64              `json:"amount"`
	OrderedAt   time.Time            `json:"orderedAt"`
	Completed   bool                 `json:"completed"`
	Project     *ProjectResponse     `json:"project,omitempty"`
	Buyer       *UserResponse        `json:"buyer,omitempty"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

func NewOrderResponse(order models.Order) OrderResponse {
	response := OrderResponse{
		ID:        order.ID,
		UserID:    order.UserID,
		ProjectID: order.ProjectID,
		Amount:    order.Amount,
		OrderedAt: order.OrderedAt,
		Completed: order.Completed,
	}
	if order.Project != nil {
		project := NewProjectResponse(*order.Project)
		response.Project = &project
	}
	if order.User != nil {
		buyer := NewUserResponse(*order.User)
		response.Buyer = &buyer
	}
	if order.Transaction != nil {
		transaction := NewTransactionResponse(*order.Transaction)
		response.Transaction = &transaction
	}
	return response
}

func NewOrderResponses(orders []models.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, NewOrderResponse(order))
	}
	return responses
}

type TransactionResponse struct {
	ID         uint                     `json:"id"`
	OrderID    uint                     `json:"orderId"`
	ExternalID string                   `json:"externalId"`
	CreatedAt  time.Time                `json:"createdAt"`
	Method     models.PaymentMethod     `json:"method"`
	Amount     float64                  `json:"amount"`
	Status     models.TransactionStatus `json:"status"`
}

func NewTransactionResponse(transaction models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:         transaction.ID,
		OrderID:    transaction.OrderID,
		ExternalID: transaction.ExternalID,
		CreatedAt:  transaction.CreatedAt,
		Method:     transaction.Method,
		Amount:     transaction.Amount,
		Status:     transaction.Status,
	}
}

func NewTransactionResponses(transactions []models.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		responses = append(responses, NewTransactionResponse(transaction))
	}
	return responses
}

type RevenueResponse struct {
	ProjectID       uint    `json:"projectId,omitempty"`
	UserID          uint    `json:"userId,omitempty"`
	Month           int     `json:"month,omitempty"`
	CompletedOrders int64   `json:"completedOrders"`
	Revenue         float64 `json:"revenue"`
}

type CategoryResponse struct {
	Value models.Category `json:"value"`
	Label string          `json:"label"`
}

type PaymentIntentResponse struct {
	ClientSecret string        `json:"clientSecret"`
	Order        OrderResponse `json:"order"`
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error"`
	Status  string `json:"status"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}
