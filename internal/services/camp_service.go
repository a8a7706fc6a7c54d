package services

import (
	"errors"
	"math"
	"strings"
	"time"

	"camp-management-backend/internal/apperr"
	"camp-management-backend/internal/models"
	"camp-management-backend/internal/repositories"
	"camp-management-backend/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CampService manages the camp aggregate: camps, churches, categories and
// custom form fields.
type CampService struct {
	repo *repositories.Repository
}

func NewCampService(repo *repositories.Repository) *CampService {
	return &CampService{repo: repo}
}

type CreateCampRequest struct {
	Name                 string
	StartDate            time.Time
	EndDate              time.Time
	Location             string
	BaseFee              float64
	Capacity             int
	Description          string
	RegistrationDeadline time.Time
	ManagerID            string
}

func (s *CampService) CreateCamp(req CreateCampRequest) (*models.Camp, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, apperr.Validation("End date must be after start date")
	}
	if req.RegistrationDeadline.After(req.StartDate) {
		return nil, apperr.Validation("Registration deadline must be before or on start date")
	}
	if req.BaseFee < 0 {
		return nil, apperr.Validation("Base fee must be non-negative")
	}
	if req.Capacity < 1 {
		return nil, apperr.Validation("Capacity must be at least 1")
	}

	camp := &models.Camp{
		ID:                   uuid.New(),
		Name:                 strings.TrimSpace(req.Name),
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		Location:             strings.TrimSpace(req.Location),
		BaseFee:              req.BaseFee,
		Capacity:             req.Capacity,
		Description:          strings.TrimSpace(req.Description),
		RegistrationDeadline: req.RegistrationDeadline,
		IsActive:             true,
	}

	if err := s.repo.CampRepo.CreateCamp(camp, req.ManagerID); err != nil {
		logger.Errorf("Database error creating camp: %v", err)
		return nil, apperr.ErrPersistence
	}

	logger.WithField("manager_id", req.ManagerID).Infof("New camp created: %s", camp.Name)
	return camp, nil
}

func (s *CampService) GetCamp(id string) (*models.Camp, error) {
	camp, err := s.repo.CampRepo.GetCampByID(id)
	if err != nil {
		return nil, apperr.NotFound("Camp not found")
	}
	return camp, nil
}

func (s *CampService) GetUserCamps(userID string) ([]models.Camp, error) {
	camps, err := s.repo.CampRepo.GetCampsByUser(userID)
	if err != nil {
		return nil, apperr.ErrPersistence
	}
	return camps, nil
}

func (s *CampService) IsCampManager(userID, campID string) (bool, error) {
	return s.repo.CampRepo.IsCampManager(userID, campID)
}

type UpdateCampRequest struct {
	Name                 *string
	StartDate            *time.Time
	EndDate              *time.Time
	Location             *string
	BaseFee              *float64
	Capacity             *int
	Description          *string
	RegistrationDeadline *time.Time
	IsActive             *bool
}

func (s *CampService) UpdateCamp(id string, req UpdateCampRequest) (*models.Camp, error) {
	camp, err := s.repo.CampRepo.GetCampByID(id)
	if err != nil {
		return nil, apperr.NotFound("Camp not found")
	}

	startDate := camp.StartDate
	if req.StartDate != nil {
		startDate = *req.StartDate
	}
	endDate := camp.EndDate
	if req.EndDate != nil {
		endDate = *req.EndDate
	}
	if !endDate.After(startDate) {
		return nil, apperr.Validation("End date must be after start date")
	}

	if req.BaseFee != nil {
		if *req.BaseFee < 0 {
			return nil, apperr.Validation("Base fee must be non-negative")
		}
		camp.BaseFee = *req.BaseFee
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return nil, apperr.Validation("Capacity must be at least 1")
		}
		camp.Capacity = *req.Capacity
	}
	if req.Name != nil {
		camp.Name = strings.TrimSpace(*req.Name)
	}
	if req.Location != nil {
		camp.Location = strings.TrimSpace(*req.Location)
	}
	if req.Description != nil {
		camp.Description = strings.TrimSpace(*req.Description)
	}
	if req.RegistrationDeadline != nil {
		camp.RegistrationDeadline = *req.RegistrationDeadline
	}
	if req.IsActive != nil {
		camp.IsActive = *req.IsActive
	}
	camp.StartDate = startDate
	camp.EndDate = endDate

	if err := s.repo.CampRepo.UpdateCamp(camp); err != nil {
		logger.Errorf("Database error updating camp: %v", err)
		return nil, apperr.ErrPersistence
	}

	logger.Infof("Camp updated: %s", camp.Name)
	return camp, nil
}

func (s *CampService) DeleteCamp(id string) error {
	camp, err := s.repo.CampRepo.GetCampByID(id)
	if err != nil {
		return apperr.NotFound("Camp not found")
	}

	if err := s.repo.CampRepo.DeleteCamp(id); err != nil {
		logger.Errorf("Database error deleting camp: %v", err)
		return apperr.ErrPersistence
	}

	logger.Infof("Camp deleted: %s", camp.Name)
	return nil
}

// CampStats summarizes a camp's registrations.
type CampStats struct {
	CampID              string  `json:"camp_id"`
	TotalRegistrations  int     `json:"total_registrations"`
	PaidRegistrations   int     `json:"paid_registrations"`
	UnpaidRegistrations int     `json:"unpaid_registrations"`
	CheckedInCount      int     `json:"checked_in_count"`
	TotalCapacity       int     `json:"total_capacity"`
	CapacityPercentage  float64 `json:"capacity_percentage"`
	TotalRevenue        float64 `json:"total_revenue"`
}

func (s *CampService) GetCampStats(id string) (*CampStats, error) {
	camp, err := s.repo.CampRepo.GetCampByID(id)
	if err != nil {
		return nil, apperr.NotFound("Camp not found")
	}

	registrations, err := s.repo.RegistrationRepo.GetRegistrationsByCamp(id)
	if err != nil {
		return nil, apperr.ErrPersistence
	}

	stats := &CampStats{
		CampID:             camp.ID.String(),
		TotalRegistrations: len(registrations),
		TotalCapacity:      camp.Capacity,
	}
	for _, reg := range registrations {
		if reg.HasPaid {
			stats.PaidRegistrations++
			stats.TotalRevenue += reg.TotalAmount
		}
		if reg.HasCheckedIn {
			stats.CheckedInCount++
		}
	}
	stats.UnpaidRegistrations = stats.TotalRegistrations - stats.PaidRegistrations
	if camp.Capacity > 0 {
		pct := float64(stats.TotalRegistrations) / float64(camp.Capacity) * 100
		stats.CapacityPercentage = math.Round(pct*100) / 100
	}

	return stats, nil
}

// === Churches ===

type ChurchRequest struct {
	Name     string
	District string
	Area     string
	CampID   string
}

// CreateChurch is idempotent on (name, district, area, camp): submitting an
// existing church returns it instead of failing, matching how form-driven
// church lists get populated.
func (s *CampService) CreateChurch(req ChurchRequest) (*models.Church, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("Church name is required")
	}

	campID, err := uuid.Parse(req.CampID)
	if err != nil {
		return nil, apperr.Validation("Invalid camp ID")
	}

	district := strings.TrimSpace(req.District)
	area := strings.TrimSpace(req.Area)

	existing, err := s.repo.CampRepo.FindChurch(name, district, area, req.CampID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrPersistence
	}

	church := &models.Church{
		ID:       uuid.New(),
		Name:     name,
		District: district,
		Area:     area,
		CampID:   campID,
	}

	if err := s.repo.CampRepo.CreateChurch(church); err != nil {
		logger.Errorf("Database error creating church: %v", err)
		return nil, apperr.ErrPersistence
	}

	logger.WithField("camp_id", req.CampID).Infof("New church created: %s", church.Name)
	return church, nil
}

func (s *CampService) CreateChurches(reqs []ChurchRequest) ([]models.Church, error) {
	churches := make([]models.Church, 0, len(reqs))
	for _, req := range reqs {
		church, err := s.CreateChurch(req)
		if err != nil {
			return nil, err
		}
		churches = append(churches, *church)
	}
	return churches, nil
}

func (s *CampService) GetCampChurches(campID string) ([]models.Church, error) {
	churches, err := s.repo.CampRepo.GetChurchesByCamp(campID)
	if err != nil {
		return nil, apperr.ErrPersistence
	}
	return churches, nil
}

func (s *CampService) UpdateChurch(id string, name string) (*models.Church, error) {
	church, err := s.repo.CampRepo.GetChurchByID(id)
	if err != nil {
		return nil, apperr.NotFound("Church not found")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Church name cannot be empty")
	}

	if existing, err := s.repo.CampRepo.FindChurch(name, church.District, church.Area, church.CampID.String()); err == nil && existing.ID != church.ID {
		return nil, apperr.Validation("A church with this name already exists in this camp")
	}

	church.Name = name
	if err := s.repo.CampRepo.UpdateChurch(church); err != nil {
		logger.Errorf("Database error updating church: %v", err)
		return nil, apperr.ErrPersistence
	}

	return church, nil
}

func (s *CampService) DeleteChurch(id string) error {
	church, err := s.repo.CampRepo.GetChurchByID(id)
	if err != nil {
		return apperr.NotFound("Church not found")
	}

	count, err := s.repo.CampRepo.CountChurchRegistrations(id)
	if err != nil {
		return apperr.ErrPersistence
	}
	if count > 0 {
		return apperr.Validation("Cannot delete church with existing registrations")
	}

	if err := s.repo.CampRepo.DeleteChurch(id); err != nil {
		logger.Errorf("Database error deleting church: %v", err)
		return apperr.ErrPersistence
	}

	logger.Infof("Church deleted: %s", church.Name)
	return nil
}

// === Categories ===

type CategoryRequest struct {
	Name               string
	CampID             string
	DiscountPercentage float64
	DiscountAmount     float64
	IsDefault          bool
}

func (s *CampService) CreateCategory(req CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("Category name is required")
	}

	campID, err := uuid.Parse(req.CampID)
	if err != nil {
		return nil, apperr.Validation("Invalid camp ID")
	}

	// The two discount kinds are mutually exclusive.
	if req.DiscountPercentage > 0 && req.DiscountAmount > 0 {
		return nil, apperr.Validation("Cannot set both discount percentage and discount amount")
	}
	if req.DiscountPercentage < 0 || req.DiscountPercentage > 100 {
		return nil, apperr.Validation("Discount percentage must be between 0 and 100")
	}
	if req.DiscountAmount < 0 {
		return nil, apperr.Validation("Discount amount must be non-negative")
	}

	if _, err := s.repo.CampRepo.GetCategoryByName(name, req.CampID); err == nil {
		return nil, apperr.Validation("A category with this name already exists in this camp")
	}

	category := &models.Category{
		ID:                 uuid.New(),
		Name:               name,
		CampID:             campID,
		DiscountPercentage: req.DiscountPercentage,
		DiscountAmount:     req.DiscountAmount,
		IsDefault:          req.IsDefault,
	}

	if err := s.repo.CampRepo.CreateCategory(category); err != nil {
		logger.Errorf("Database error creating category: %v", err)
		return nil, apperr.ErrPersistence
	}

	logger.WithField("camp_id", req.CampID).Infof("New category created: %s", category.Name)
	return category, nil
}

func (s *CampService) GetCampCategories(campID string) ([]models.Category, error) {
	categories, err := s.repo.CampRepo.GetCategoriesByCamp(campID)
	if err != nil {
		return nil, apperr.ErrPersistence
	}
	return categories, nil
}

type UpdateCategoryRequest struct {
	Name               *string
	DiscountPercentage *float64
	DiscountAmount     *float64
	IsDefault          *bool
}

func (s *CampService) UpdateCategory(id string, req UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.repo.CampRepo.GetCategoryByID(id)
	if err != nil {
		return nil, apperr.NotFound("Category not found")
	}

	pct := category.DiscountPercentage
	if req.DiscountPercentage != nil {
		pct = *req.DiscountPercentage
	}
	amount := category.DiscountAmount
	if req.DiscountAmount != nil {
		amount = *req.DiscountAmount
	}
	if pct > 0 && amount > 0 {
		return nil, apperr.Validation("Cannot set both discount percentage and discount amount")
	}
	if pct < 0 || pct > 100 {
		return nil, apperr.Validation("Discount percentage must be between 0 and 100")
	}
	if amount < 0 {
		return nil, apperr.Validation("Discount amount must be non-negative")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Validation("Category name cannot be empty")
		}
		if existing, err := s.repo.CampRepo.GetCategoryByName(name, category.CampID.String()); err == nil && existing.ID != category.ID {
			return nil, apperr.Validation("A category with this name already exists in this camp")
		}
		category.Name = name
	}

	category.DiscountPercentage = pct
	category.DiscountAmount = amount
	if req.IsDefault != nil {
		category.IsDefault = *req.IsDefault
	}

	if err := s.repo.CampRepo.UpdateCategory(category); err != nil {
		logger.Errorf("Database error updating category: %v", err)
		return nil, apperr.ErrPersistence
	}

	return category, nil
}

func (s *CampService) DeleteCategory(id string) error {
	category, err := s.repo.CampRepo.GetCategoryByID(id)
	if err != nil {
		return apperr.NotFound("Category not found")
	}

	count, err := s.repo.CampRepo.CountCategoryRegistrations(id)
	if err != nil {
		return apperr.ErrPersistence
	}
	if count > 0 {
		return apperr.Validation("Cannot delete category with existing registrations")
	}

	if err := s.repo.CampRepo.DeleteCategory(id); err != nil {
		logger.Errorf("Database error deleting category: %v", err)
		return apperr.ErrPersistence
	}

	logger.Infof("Category deleted: %s", category.Name)
	return nil
}

// === Custom fields ===

var validFieldTypes = map[string]bool{
	"text":     true,
	"number":   true,
	"dropdown": true,
	"checkbox": true,
	"date":     true,
}

type CustomFieldRequest struct {
	FieldName  string
	FieldType  string
	CampID     string
	IsRequired bool
	Options    []string
	Order      int
}

func (s *CampService) CreateCustomField(req CustomFieldRequest) (*models.CustomField, error) {
	name := strings.TrimSpace(req.FieldName)
	if name == "" {
		return nil, apperr.Validation("Field name is required")
	}
	if !validFieldTypes[req.FieldType] {
		return nil, apperr.Validation("Invalid field type. Must be one of: text, number, dropdown, checkbox, date")
	}
	if (req.FieldType == "dropdown" || req.FieldType == "checkbox") && len(req.Options) == 0 {
		return nil, apperr.Validation("Options are required for dropdown and checkbox fields")
	}

	campID, err := uuid.Parse(req.CampID)
	if err != nil {
		return nil, apperr.Validation("Invalid camp ID")
	}

	field := &models.CustomField{
		ID:         uuid.New(),
		FieldName:  name,
		FieldType:  req.FieldType,
		CampID:     campID,
		IsRequired: req.IsRequired,
		Options:    req.Options,
		Order:      req.Order,
	}

	if err := s.repo.CampRepo.CreateCustomField(field); err != nil {
		logger.Errorf("Database error creating custom field: %v", err)
		return nil, apperr.ErrPersistence
	}

	logger.WithField("camp_id", req.CampID).Infof("New custom field created: %s", field.FieldName)
	return field, nil
}

func (s *CampService) GetCampCustomFields(campID string) ([]models.CustomField, error) {
	fields, err := s.repo.CampRepo.GetCustomFieldsByCamp(campID)
	if err != nil {
		return nil, apperr.ErrPersistence
	}
	return fields, nil
}

type UpdateCustomFieldRequest struct {
	FieldName  *string
	FieldType  *string
	IsRequired *bool
	Options    []string
	Order      *int
}

func (s *CampService) UpdateCustomField(id string, req UpdateCustomFieldRequest) (*models.CustomField, error) {
	field, err := s.repo.CampRepo.GetCustomFieldByID(id)
	if err != nil {
		return nil, apperr.NotFound("Custom field not found")
	}

	fieldType := field.FieldType
	if req.FieldType != nil {
		if !validFieldTypes[*req.FieldType] {
			return nil, apperr.Validation("Invalid field type. Must be one of: text, number, dropdown, checkbox, date")
		}
		fieldType = *req.FieldType
	}

	options := field.Options
	if req.Options != nil {
		options = req.Options
	}
	if (fieldType == "dropdown" || fieldType == "checkbox") && len(options) == 0 {
		return nil, apperr.Validation("Options are required for dropdown and checkbox fields")
	}

	if req.FieldName != nil {
		name := strings.TrimSpace(*req.FieldName)
		if name == "" {
			return nil, apperr.Validation("Field name cannot be empty")
		}
		field.FieldName = name
	}
	field.FieldType = fieldType
	field.Options = options
	if req.IsRequired != nil {
		field.IsRequired = *req.IsRequired
	}
	if req.Order != nil {
		field.Order = *req.Order
	}

	if err := s.repo.CampRepo.UpdateCustomField(field); err != nil {
		logger.Errorf("Database error updating custom field: %v", err)
		return nil, apperr.ErrPersistence
	}

	return field, nil
}

func (s *CampService) DeleteCustomField(id string) error {
	field, err := s.repo.CampRepo.GetCustomFieldByID(id)
	if err != nil {
		return apperr.NotFound("Custom field not found")
	}

	if err := s.repo.CampRepo.DeleteCustomField(id); err != nil {
		logger.Errorf("Database error deleting custom field: %v", err)
		return apperr.ErrPersistence
	}

	logger.Infof("Custom field deleted: %s", field.FieldName)
	return nil
}
