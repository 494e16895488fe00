package database

import (
	"gorm.io/gorm"

	"github.com/codemart-app/backend/errs"
	"github.com/codemart-app/backend/models"
)

type ReviewRepo struct {
	db *gorm.DB
}

func NewReviewRepo(db *gorm.DB) *ReviewRepo {
	return &ReviewRepo{db}
}

func (r *ReviewRepo) FindAll() ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.Find(&reviews).Error; err != nil {
		return nil, errs.FromDatabase("find", "reviews", err)
	}
	return reviews, nil
}

func (r *ReviewRepo) FindByID(id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, id).Error; err != nil {
		return nil, errs.FromDatabase("find", "review", err)
	}
	return &review, nil
}

func (r *ReviewRepo) FindByProject(projectID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Find(&reviews).Error
	if err != nil {
		return nil, errs.FromDatabase("find", "reviews", err)
	}
	return reviews, nil
}

func (r *ReviewRepo) FindByUserAndProject(userID, projectID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.
		Where("user_id = ? AND project_id = ?", userID, projectID).
		First(&review).Error
	if err != nil {
		return nil, errs.FromDatabase("find", "review", err)
	}
	return &review, nil
}

func (r *ReviewRepo) Add(review *models.Review) error {
	if err := r.db.Create(review).Error; err != nil {
		return errs.FromDatabase("create", "review", err)
	}
	return nil
}

func (r *ReviewRepo) UpdateFields(review *models.Review) error {
	err := r.db.Model(&models.Review{}).
		Where("id = ?", review.ID).
		Select("comment", "rating").
		Updates(review).Error
	if err != nil {
		return errs.FromDatabase("update", "review", err)
	}
	return nil
}

func (r *ReviewRepo) Delete(id uint) error {
	if err := r.db.Delete(&models.Review{}, id).Error; err != nil {
		return errs.FromDatabase("delete", "review", err)
	}
	return nil
}
