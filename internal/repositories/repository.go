package repositories

import (
	"camp-management-backend/internal/models"

	"gorm.io/gorm"
)

type Repository struct {
	DB               *gorm.DB
	UserRepo         UserRepository
	CampRepo         CampRepository
	LinkRepo         LinkRepository
	RegistrationRepo RegistrationRepository
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:               db,
		UserRepo:         NewUserRepository(db),
		CampRepo:         NewCampRepository(db),
		LinkRepo:         NewLinkRepository(db),
		RegistrationRepo: NewRegistrationRepository(db),
	}
}

func AutoMigrate(db *gorm.DB) error {
	// Enable UUID extension
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return err
	}

	// Migrate models
	return db.AutoMigrate(
		&models.User{},
		&models.Camp{},
		&models.CampWorker{},
		&models.Church{},
		&models.Category{},
		&models.CustomField{},
		&models.RegistrationLink{},
		&models.Registration{},
	)
}

// Interface definitions
type UserRepository interface {
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	CreateUser(user *models.User) error
	UpdateUser(user *models.User) error
}

type CampRepository interface {
	CreateCamp(camp *models.Camp, managerID string) error
	GetCampByID(id string) (*models.Camp, error)
	GetActiveCampByID(id string) (*models.Camp, error)
	GetCampsByUser(userID string) ([]models.Camp, error)
	UpdateCamp(camp *models.Camp) error
	DeleteCamp(id string) error
	IsCampManager(userID, campID string) (bool, error)

	// Churches
	CreateChurch(church *models.Church) error
	GetChurchByID(id string) (*models.Church, error)
	FindChurch(name, district, area, campID string) (*models.Church, error)
	GetChurchesByCamp(campID string) ([]models.Church, error)
	UpdateChurch(church *models.Church) error
	DeleteChurch(id string) error
	CountChurchRegistrations(churchID string) (int64, error)

	// Categories
	CreateCategory(category *models.Category) error
	GetCategoryByID(id string) (*models.Category, error)
	GetCategoryByName(name, campID string) (*models.Category, error)
	GetCategoriesByCamp(campID string) ([]models.Category, error)
	GetCategoriesByIDs(campID string, ids []string) ([]models.Category, error)
	UpdateCategory(category *models.Category) error
	DeleteCategory(id string) error
	CountCategoryRegistrations(categoryID string) (int64, error)

	// Custom fields
	CreateCustomField(field *models.CustomField) error
	GetCustomFieldByID(id string) (*models.CustomField, error)
	GetCustomFieldsByCamp(campID string) ([]models.CustomField, error)
	UpdateCustomField(field *models.CustomField) error
	DeleteCustomField(id string) error
}

type LinkRepository interface {
	CreateLink(link *models.RegistrationLink) error
	GetLinkByID(id string) (*models.RegistrationLink, error)
	GetLinkByToken(token string) (*models.RegistrationLink, error)
	GetLinksByCamp(campID string) ([]models.RegistrationLink, error)
	UpdateLink(link *models.RegistrationLink) error
	DeleteLink(id string) error
	CountLinkRegistrations(linkID string) (int64, error)
}

type RegistrationRepository interface {
	// AdmitRegistration persists the registration and, when link is non-nil,
	// increments the link usage counter; both happen in one transaction. The
	// camp row is locked and capacity re-checked inside the transaction, and
	// the usage increment is guarded against the usage limit, so concurrent
	// admissions cannot overshoot either bound.
	AdmitRegistration(registration *models.Registration, link *models.RegistrationLink) error
	// CancelRegistration deletes the registration and, in the same
	// transaction, decrements the originating link's usage count (floored at 0).
	CancelRegistration(registration *models.Registration) error

	GetRegistrationByID(id string) (*models.Registration, error)
	GetRegistrationsByCamp(campID string) ([]models.Registration, error)
	ListRegistrationsByCamp(campID string, offset, limit int) ([]models.Registration, int64, error)
	CountRegistrationsByCamp(campID string) (int64, error)
	GetCamperCodesByCamp(campID string) ([]string, error)
	UpdateRegistration(registration *models.Registration) error
}
