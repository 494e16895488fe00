package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codemart-app/backend/errs"
	"github.com/codemart-app/backend/models"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

func (r *ProjectRepo) FindAllWithReviews() ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Preload("Reviews").Find(&projects).Error; err != nil {
		return nil, errs.FromDatabase("find", "projects", err)
	}
	return projects, nil
}

func (r *ProjectRepo) FindByIDWithReviews(id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.
		Preload("Reviews").
		Preload("Reviews.User").
		First(&project, id).Error
	if err != nil {
		return nil, errs.FromDatabase("find", "project", err)
	}
	return &project, nil
}

func (r *ProjectRepo) FindByOwner(ownerID uint) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Preload("Reviews").
		Where("owner_id = ?", ownerID).
		Find(&projects).Error
	if err != nil {
		return nil, errs.FromDatabase("find", "projects", err)
	}
	return projects, nil
}

func (r *ProjectRepo) FindByCategory(category models.Category) ([]models.Project, error) {
	return r.findWhere("category = ?", category)
}

func (r *ProjectRepo) FindByPriceRange(min, max float64) ([]models.Project, error) {
	return r.findWhere("price >= ? AND price <= ?", min, max)
}

func (r *ProjectRepo) FindByPermission(permission models.Permission) ([]models.Project, error) {
	return r.findWhere("permission = ?", permission)
}

func (r *ProjectRepo) SearchByName(name string) ([]models.Project, error) {
	return r.findWhere("name ILIKE ?", "%"+name+"%")
}

func (r *ProjectRepo) SortedByPrice() ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Preload("Reviews").
		Order("price ASC").
		Find(&projects).Error
	if err != nil {
		return nil, errs.FromDatabase("find", "projects", err)
	}
	return projects, nil
}

func (r *ProjectRepo) findWhere(condition string, args ...any) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Preload("Reviews").
		Where(condition, args...).
		Find(&projects).Error
	if err != nil {
		return nil, errs.FromDatabase("find", "projects", err)
	}
	return projects, nil
}

func (r *ProjectRepo) Add(project *models.Project) error {
	if err := r.db.Create(project).Error; err != nil {
		return errs.FromDatabase("create", "project", err)
	}
	return nil
}

// UpdateFields writes only the mutable whitelist. Permission transitions go
// through SetPermission exclusively.
func (r *ProjectRepo) UpdateFields(project *models.Project) error {
	err := r.db.Model(&models.Project{}).
		Where("id = ?", project.ID).
		Select("name", "category", "description", "price", "file_url", "video_url", "images", "languages", "features").
		Updates(project).Error
	if err != nil {
		return errs.FromDatabase("update", "project", err)
	}
	return nil
}

func (r *ProjectRepo) Delete(id uint) error {
	if err := r.db.Select(clause.Associations).Delete(&models.Project{ID: id}).Error; err != nil {
		return errs.FromDatabase("delete", "project", err)
	}
	return nil
}

func (r *ProjectRepo) SetPermission(id uint, permission models.Permission) error {
	err := r.db.Model(&models.Project{}).
		Where("id = ?", id).
		Update("permission", permission).Error
	if err != nil {
		return errs.FromDatabase("update", "project", err)
	}
	return nil
}

func (r *ProjectRepo) Buyers(projectID uint) ([]models.User, error) {
	var buyers []models.User
	err := r.db.
		Joins("JOIN bought_projects bp ON bp.user_id = users.id").
		Where("bp.project_id = ?", projectID).
		Find(&buyers).Error
	if err != nil {
		return nil, errs.FromDatabase("find", "buyers", err)
	}
	return buyers, nil
}

func (r *ProjectRepo) CompletedOrderCount(projectID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).
		Where("project_id = ? AND completed", projectID).
		Count(&count).Error
	if err != nil {
		return 0, errs.FromDatabase("count", "orders", err)
	}
	return count, nil
}

// CompletedOrderCountInMonth filters by month component only; orders from
// the same month of any year are counted.
func (r *ProjectRepo) CompletedOrderCountInMonth(projectID uint, month int) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).
		Where("project_id = ? AND completed AND EXTRACT(MONTH FROM ordered_at) = ?", projectID, month).
		Count(&count).Error
	if err != nil {
		return 0, errs.FromDatabase("count", "orders", err)
	}
	return count, nil
}
