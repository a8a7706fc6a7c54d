package repositories

import (
	"errors"
	"fmt"

	"camp-management-backend/internal/apperr"
	"camp-management-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type registrationRepo struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepo{db: db}
}

// AdmitRegistration commits a validated registration. The service has already
// run the admission gates against unlocked reads; those checks race with other
// registrants, so capacity and link usage are re-verified here under the
// transaction before anything is written.
func (r *registrationRepo) AdmitRegistration(registration *models.Registration, link *models.RegistrationLink) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Lock the camp row so concurrent admissions for the same camp
		// serialize on the capacity recount.
		var camp models.Camp
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", registration.CampID).First(&camp).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrCampNotFound
			}
			return fmt.Errorf("failed to lock camp: %w", err)
		}

		var count int64
		if err := tx.Model(&models.Registration{}).
			Where("camp_id = ?", registration.CampID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count registrations: %w", err)
		}
		if count >= int64(camp.Capacity) {
			return apperr.ErrCapacityExceeded
		}

		if err := tx.Create(registration).Error; err != nil {
			return fmt.Errorf("failed to create registration: %w", err)
		}

		if link != nil {
			// Single guarded increment; zero rows affected means another
			// admission consumed the last slot after our read.
			result := tx.Model(&models.RegistrationLink{}).
				Where("id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", link.ID).
				Update("usage_count", gorm.Expr("usage_count + 1"))
			if result.Error != nil {
				return fmt.Errorf("failed to update link usage: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return apperr.ErrLinkExpired
			}
			link.UsageCount++
		}

		return nil
	})
}

// CancelRegistration removes the registration and releases its link slot.
func (r *registrationRepo) CancelRegistration(registration *models.Registration) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if registration.RegistrationLinkID != nil {
			// Floored at zero: cancelling twice must not underflow the counter.
			if err := tx.Model(&models.RegistrationLink{}).
				Where("id = ? AND usage_count > 0", *registration.RegistrationLinkID).
				Update("usage_count", gorm.Expr("usage_count - 1")).Error; err != nil {
				return fmt.Errorf("failed to release link usage: %w", err)
			}
		}

		result := tx.Where("id = ?", registration.ID).Delete(&models.Registration{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete registration: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperr.ErrRegistrationMissing
		}
		return nil
	})
}

func (r *registrationRepo) GetRegistrationByID(id string) (*models.Registration, error) {
	var registration models.Registration
	if err := r.db.Where("id = ?", id).First(&registration).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *registrationRepo) GetRegistrationsByCamp(campID string) ([]models.Registration, error) {
	var registrations []models.Registration
	if err := r.db.Where("camp_id = ?", campID).
		Order("registration_date DESC").Find(&registrations).Error; err != nil {
		return nil, fmt.Errorf("failed to get registrations: %w", err)
	}
	return registrations, nil
}

func (r *registrationRepo) ListRegistrationsByCamp(campID string, offset, limit int) ([]models.Registration, int64, error) {
	var registrations []models.Registration
	var total int64

	if err := r.db.Model(&models.Registration{}).
		Where("camp_id = ?", campID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.Where("camp_id = ?", campID).
		Offset(offset).Limit(limit).
		Order("registration_date DESC").
		Find(&registrations).Error; err != nil {
		return nil, 0, err
	}

	return registrations, total, nil
}

func (r *registrationRepo) CountRegistrationsByCamp(campID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Registration{}).Where("camp_id = ?", campID).Count(&count).Error
	return count, err
}

func (r *registrationRepo) GetCamperCodesByCamp(campID string) ([]string, error) {
	var codes []string
	if err := r.db.Model(&models.Registration{}).
		Where("camp_id = ?", campID).Pluck("camper_code", &codes).Error; err != nil {
		return nil, fmt.Errorf("failed to get camper codes: %w", err)
	}
	return codes, nil
}

func (r *registrationRepo) UpdateRegistration(registration *models.Registration) error {
	return r.db.Save(registration).Error
}
