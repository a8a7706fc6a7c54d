package repositories

import (
	"errors"
	"fmt"

	"camp-management-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type campRepo struct {
	db *gorm.DB
}

func NewCampRepository(db *gorm.DB) CampRepository {
	return &campRepo{db: db}
}

// CreateCamp creates the camp together with its manager's worker row.
func (r *campRepo) CreateCamp(camp *models.Camp, managerID string) error {
	if camp == nil {
		return errors.New("camp cannot be nil")
	}

	managerUUID, err := uuid.Parse(managerID)
	if err != nil {
		return fmt.Errorf("invalid manager ID: %w", err)
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(camp).Error; err != nil {
			return err
		}
		worker := &models.CampWorker{
			ID:     uuid.New(),
			UserID: managerUUID,
			CampID: camp.ID,
			Role:   "camp_manager",
		}
		return tx.Create(worker).Error
	})
}

func (r *campRepo) GetCampByID(id string) (*models.Camp, error) {
	if id == "" {
		return nil, errors.New("camp ID cannot be empty")
	}

	var camp models.Camp
	if err := r.db.Where("id = ?", id).First(&camp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("camp not found with ID: %s", id)
		}
		return nil, fmt.Errorf("failed to get camp: %w", err)
	}

	return &camp, nil
}

func (r *campRepo) GetActiveCampByID(id string) (*models.Camp, error) {
	var camp models.Camp
	if err := r.db.Where("id = ? AND is_active = ?", id, true).First(&camp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get camp: %w", err)
	}
	return &camp, nil
}

func (r *campRepo) GetCampsByUser(userID string) ([]models.Camp, error) {
	var camps []models.Camp
	if err := r.db.
		Joins("JOIN camp_workers ON camp_workers.camp_id = camps.id").
		Where("camp_workers.user_id = ?", userID).
		Order("camps.created_at DESC").
		Find(&camps).Error; err != nil {
		return nil, fmt.Errorf("failed to list camps: %w", err)
	}
	return camps, nil
}

func (r *campRepo) UpdateCamp(camp *models.Camp) error {
	if camp == nil {
		return errors.New("camp cannot be nil")
	}
	return r.db.Save(camp).Error
}

// DeleteCamp removes the camp; churches, categories, custom fields, links and
// registrations go with it via ON DELETE CASCADE.
func (r *campRepo) DeleteCamp(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Camp{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete camp: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("camp not found with ID: %s", id)
	}
	return nil
}

func (r *campRepo) IsCampManager(userID, campID string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.CampWorker{}).
		Where("user_id = ? AND camp_id = ? AND role = ?", userID, campID, "camp_manager").
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// === Churches ===

func (r *campRepo) CreateChurch(church *models.Church) error {
	return r.db.Create(church).Error
}

func (r *campRepo) GetChurchByID(id string) (*models.Church, error) {
	var church models.Church
	if err := r.db.Where("id = ?", id).First(&church).Error; err != nil {
		return nil, err
	}
	return &church, nil
}

func (r *campRepo) FindChurch(name, district, area, campID string) (*models.Church, error) {
	var church models.Church
	if err := r.db.Where(
		"name = ? AND district = ? AND area = ? AND camp_id = ?",
		name, district, area, campID,
	).First(&church).Error; err != nil {
		return nil, err
	}
	return &church, nil
}

func (r *campRepo) GetChurchesByCamp(campID string) ([]models.Church, error) {
	var churches []models.Church
	if err := r.db.Where("camp_id = ?", campID).Order("name ASC").Find(&churches).Error; err != nil {
		return nil, fmt.Errorf("failed to get churches: %w", err)
	}
	return churches, nil
}

func (r *campRepo) UpdateChurch(church *models.Church) error {
	return r.db.Save(church).Error
}

func (r *campRepo) DeleteChurch(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Church{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete church: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("church not found with ID: %s", id)
	}
	return nil
}

func (r *campRepo) CountChurchRegistrations(churchID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Registration{}).Where("church_id = ?", churchID).Count(&count).Error
	return count, err
}

// === Categories ===

func (r *campRepo) CreateCategory(category *models.Category) error {
	return r.db.Create(category).Error
}

func (r *campRepo) GetCategoryByID(id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *campRepo) GetCategoryByName(name, campID string) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("name = ? AND camp_id = ?", name, campID).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *campRepo) GetCategoriesByCamp(campID string) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Where("camp_id = ?", campID).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

func (r *campRepo) GetCategoriesByIDs(campID string, ids []string) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Where("camp_id = ? AND id IN ?", campID, ids).
		Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

func (r *campRepo) UpdateCategory(category *models.Category) error {
	return r.db.Save(category).Error
}

func (r *campRepo) DeleteCategory(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Category{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("category not found with ID: %s", id)
	}
	return nil
}

func (r *campRepo) CountCategoryRegistrations(categoryID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Registration{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

// === Custom fields ===

func (r *campRepo) CreateCustomField(field *models.CustomField) error {
	return r.db.Create(field).Error
}

func (r *campRepo) GetCustomFieldByID(id string) (*models.CustomField, error) {
	var field models.CustomField
	if err := r.db.Where("id = ?", id).First(&field).Error; err != nil {
		return nil, err
	}
	return &field, nil
}

func (r *campRepo) GetCustomFieldsByCamp(campID string) ([]models.CustomField, error) {
	var fields []models.CustomField
	if err := r.db.Where("camp_id = ?", campID).
		Order(`"order" ASC, field_name ASC`).Find(&fields).Error; err != nil {
		return nil, fmt.Errorf("failed to get custom fields: %w", err)
	}
	return fields, nil
}

func (r *campRepo) UpdateCustomField(field *models.CustomField) error {
	return r.db.Save(field).Error
}

func (r *campRepo) DeleteCustomField(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.CustomField{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete custom field: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("custom field not found with ID: %s", id)
	}
	return nil
}
