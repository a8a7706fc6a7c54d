package repositories

import (
	"errors"
	"fmt"

	"camp-management-backend/internal/models"

	"gorm.io/gorm"
)

type linkRepo struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepo{db: db}
}

func (r *linkRepo) CreateLink(link *models.RegistrationLink) error {
	return r.db.Create(link).Error
}

func (r *linkRepo) GetLinkByID(id string) (*models.RegistrationLink, error) {
	var link models.RegistrationLink
	if err := r.db.Where("id = ?", id).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *linkRepo) GetLinkByToken(token string) (*models.RegistrationLink, error) {
	if token == "" {
		return nil, errors.New("link token cannot be empty")
	}

	var link models.RegistrationLink
	if err := r.db.Where("link_token = ?", token).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *linkRepo) GetLinksByCamp(campID string) ([]models.RegistrationLink, error) {
	var links []models.RegistrationLink
	if err := r.db.Where("camp_id = ?", campID).
		Order("created_at DESC").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to get registration links: %w", err)
	}
	return links, nil
}

func (r *linkRepo) UpdateLink(link *models.RegistrationLink) error {
	return r.db.Save(link).Error
}

func (r *linkRepo) DeleteLink(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.RegistrationLink{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete registration link: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("registration link not found with ID: %s", id)
	}
	return nil
}

func (r *linkRepo) CountLinkRegistrations(linkID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Registration{}).
		Where("registration_link_id = ?", linkID).Count(&count).Error
	return count, err
}
