package services

import (
	"errors"
	"fmt"
	"time"

	"camp-management-backend/internal/apperr"
	"camp-management-backend/internal/config"
	"camp-management-backend/internal/integrations"
	"camp-management-backend/internal/models"
	"camp-management-backend/internal/repositories"
	"camp-management-backend/internal/utils"
	"camp-management-backend/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegistrationService runs the admission pipeline: it validates a submission
// against the camp's state, prices it, assigns a camper code and commits the
// registration together with the link-usage bump.
type RegistrationService struct {
	campRepo repositories.CampRepository
	linkRepo repositories.LinkRepository
	regRepo  repositories.RegistrationRepository
	notifier integrations.Notifier
	cfg      *config.Config
}

func NewRegistrationService(
	campRepo repositories.CampRepository,
	linkRepo repositories.LinkRepository,
	regRepo repositories.RegistrationRepository,
	notifier integrations.Notifier,
	cfg *config.Config,
) *RegistrationService {
	return &RegistrationService{
		campRepo: campRepo,
		linkRepo: linkRepo,
		regRepo:  regRepo,
		notifier: notifier,
		cfg:      cfg,
	}
}

type RegistrationRequest struct {
	CampID                string
	Surname               string
	MiddleName            string
	LastName              string
	Age                   int
	Email                 string
	PhoneNumber           string
	EmergencyContactName  string
	EmergencyContactPhone string
	ChurchID              string
	CategoryID            string
	CustomFieldResponses  map[string]interface{}
}

// CreateRegistration admits a registration request. linkToken is empty for the
// general form. The gates run in order: camp, deadline, capacity, church,
// category, link; then pricing and code assignment; then the atomic commit.
// Capacity and link usage are checked again inside the commit transaction, so
// the reads here are advisory and concurrent racers cannot overshoot.
func (s *RegistrationService) CreateRegistration(req RegistrationRequest, linkToken string) (*models.Registration, error) {
	camp, err := s.campRepo.GetActiveCampByID(req.CampID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrCampNotFound
		}
		return nil, s.persistence("look up camp", err)
	}

	now := time.Now().UTC()
	if now.After(camp.RegistrationDeadline) {
		return nil, apperr.ErrDeadlinePassed
	}

	count, err := s.regRepo.CountRegistrationsByCamp(req.CampID)
	if err != nil {
		return nil, s.persistence("count registrations", err)
	}
	if count >= int64(camp.Capacity) {
		return nil, apperr.ErrCapacityExceeded
	}

	church, err := s.campRepo.GetChurchByID(req.ChurchID)
	if err != nil || church.CampID != camp.ID {
		return nil, apperr.ErrInvalidChurch
	}

	category, err := s.campRepo.GetCategoryByID(req.CategoryID)
	if err != nil || category.CampID != camp.ID {
		return nil, apperr.ErrInvalidCategory
	}

	var link *models.RegistrationLink
	if linkToken != "" {
		link, err = s.linkRepo.GetLinkByToken(linkToken)
		if err != nil || link.CampID != camp.ID {
			return nil, apperr.ErrInvalidLink
		}
		if !link.IsValid(now) {
			return nil, apperr.ErrLinkExpired
		}
		if !link.AllowsCategory(req.CategoryID) {
			return nil, apperr.ErrCategoryNotAllowed.WithDetails(map[string]interface{}{
				"allowed_categories": link.AllowedCategories,
				"selected_category":  req.CategoryID,
			})
		}
	}

	totalAmount := PriceForCategory(camp.BaseFee, category)

	codes, err := s.regRepo.GetCamperCodesByCamp(req.CampID)
	if err != nil {
		return nil, s.persistence("load camper codes", err)
	}
	camperCode, err := GenerateCamperCode(CodeSet(codes), s.cfg.CodeAttempts)
	if err != nil {
		if appErr, ok := apperr.As(err); ok {
			logger.WithField("camp_id", req.CampID).
				Errorf("Camper code generation exhausted after %d attempts", s.cfg.CodeAttempts)
			return nil, appErr
		}
		return nil, err
	}

	registration := &models.Registration{
		ID:                    uuid.New(),
		Surname:               req.Surname,
		MiddleName:            req.MiddleName,
		LastName:              req.LastName,
		Age:                   req.Age,
		Email:                 req.Email,
		PhoneNumber:           req.PhoneNumber,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		ChurchID:              church.ID,
		CategoryID:            category.ID,
		CampID:                camp.ID,
		CustomFieldResponses:  req.CustomFieldResponses,
		TotalAmount:           totalAmount,
		CamperCode:            camperCode,
		RegistrationDate:      now,
	}
	if link != nil {
		registration.RegistrationLinkID = &link.ID
	}

	if err := s.regRepo.AdmitRegistration(registration, link); err != nil {
		if appErr, ok := apperr.As(err); ok {
			return nil, appErr
		}
		return nil, s.persistence("commit registration", err)
	}

	logger.WithFields(map[string]interface{}{
		"camp_id":     camp.ID.String(),
		"camper_code": registration.CamperCode,
	}).Infof("New registration: %s %s", registration.Surname, registration.LastName)

	// Camper QR and the confirmation SMS are best-effort; the registration is
	// already committed and must not be rolled back by either.
	s.attachCamperQR(registration)
	if s.notifier != nil {
		go s.notifier.SendRegistrationConfirmation(registration, camp)
	}

	return registration, nil
}

func (s *RegistrationService) attachCamperQR(registration *models.Registration) {
	filename, err := utils.GenerateQRCodeImage(registration.CamperCode, s.cfg.QRDir)
	if err != nil {
		logger.Warnf("Failed to generate camper QR for %s: %v", registration.CamperCode, err)
		return
	}
	registration.QRPath = fmt.Sprintf("/qrcodes/%s", filename)
	if err := s.regRepo.UpdateRegistration(registration); err != nil {
		logger.Warnf("Failed to store QR path for %s: %v", registration.CamperCode, err)
	}
}

// RegistrationForm is the public form structure for a camp.
type RegistrationForm struct {
	Camp             *models.Camp             `json:"camp"`
	Churches         []models.Church          `json:"churches"`
	Categories       []models.Category        `json:"categories"`
	CustomFields     []models.CustomField     `json:"custom_fields"`
	LinkType         string                   `json:"link_type"` // general|category_specific
	RegistrationLink *models.RegistrationLink `json:"registration_link,omitempty"`
}

// GetRegistrationForm resolves the form a registrant sees. With a link token
// the category choices collapse to the link's allowed set.
func (s *RegistrationService) GetRegistrationForm(campID, linkToken string) (*RegistrationForm, error) {
	camp, err := s.campRepo.GetActiveCampByID(campID)
	if err != nil {
		return nil, apperr.ErrCampNotFound
	}

	churches, err := s.campRepo.GetChurchesByCamp(campID)
	if err != nil {
		return nil, s.persistence("load churches", err)
	}
	customFields, err := s.campRepo.GetCustomFieldsByCamp(campID)
	if err != nil {
		return nil, s.persistence("load custom fields", err)
	}

	form := &RegistrationForm{
		Camp:         camp,
		Churches:     churches,
		CustomFields: customFields,
		LinkType:     "general",
	}

	if linkToken != "" {
		link, err := s.linkRepo.GetLinkByToken(linkToken)
		if err != nil || link.CampID != camp.ID {
			return nil, apperr.ErrInvalidLink
		}
		if !link.IsValid(time.Now().UTC()) {
			return nil, apperr.ErrLinkExpired
		}
		categories, err := s.campRepo.GetCategoriesByIDs(campID, link.AllowedCategories)
		if err != nil {
			return nil, s.persistence("load categories", err)
		}
		form.Categories = categories
		form.LinkType = "category_specific"
		form.RegistrationLink = link
		return form, nil
	}

	categories, err := s.campRepo.GetCategoriesByCamp(campID)
	if err != nil {
		return nil, s.persistence("load categories", err)
	}
	form.Categories = categories
	return form, nil
}

func (s *RegistrationService) GetRegistration(id string) (*models.Registration, error) {
	registration, err := s.regRepo.GetRegistrationByID(id)
	if err != nil {
		return nil, apperr.ErrRegistrationMissing
	}
	return registration, nil
}

func (s *RegistrationService) ListRegistrations(campID string, page, pageSize int) ([]models.Registration, int64, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	registrations, total, err := s.regRepo.ListRegistrationsByCamp(campID, offset, pageSize)
	if err != nil {
		return nil, 0, 0, s.persistence("list registrations", err)
	}

	totalPages := (int(total) + pageSize - 1) / pageSize
	return registrations, total, totalPages, nil
}

type UpdateRegistrationRequest struct {
	Surname               *string
	MiddleName            *string
	LastName              *string
	Age                   *int
	Email                 *string
	PhoneNumber           *string
	EmergencyContactName  *string
	EmergencyContactPhone *string
	ChurchID              *string
	CategoryID            *string
	CustomFieldResponses  map[string]interface{}
}

// UpdateRegistration edits a registration. The total amount is recomputed only
// when the category actually changes; every other edit leaves it untouched.
func (s *RegistrationService) UpdateRegistration(id string, req UpdateRegistrationRequest) (*models.Registration, error) {
	registration, err := s.regRepo.GetRegistrationByID(id)
	if err != nil {
		return nil, apperr.ErrRegistrationMissing
	}

	if req.ChurchID != nil {
		church, err := s.campRepo.GetChurchByID(*req.ChurchID)
		if err != nil || church.CampID != registration.CampID {
			return nil, apperr.ErrInvalidChurch
		}
		registration.ChurchID = church.ID
	}

	if req.CategoryID != nil {
		category, err := s.campRepo.GetCategoryByID(*req.CategoryID)
		if err != nil || category.CampID != registration.CampID {
			return nil, apperr.ErrInvalidCategory
		}
		if category.ID != registration.CategoryID {
			camp, err := s.campRepo.GetCampByID(registration.CampID.String())
			if err != nil {
				return nil, s.persistence("look up camp", err)
			}
			registration.TotalAmount = PriceForCategory(camp.BaseFee, category)
			registration.CategoryID = category.ID
		}
	}

	if req.Age != nil {
		if *req.Age < 1 || *req.Age > 150 {
			return nil, apperr.Validation("Age must be between 1 and 150")
		}
		registration.Age = *req.Age
	}
	if req.Surname != nil {
		registration.Surname = *req.Surname
	}
	if req.MiddleName != nil {
		registration.MiddleName = *req.MiddleName
	}
	if req.LastName != nil {
		registration.LastName = *req.LastName
	}
	if req.Email != nil {
		registration.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		registration.PhoneNumber = *req.PhoneNumber
	}
	if req.EmergencyContactName != nil {
		registration.EmergencyContactName = *req.EmergencyContactName
	}
	if req.EmergencyContactPhone != nil {
		registration.EmergencyContactPhone = *req.EmergencyContactPhone
	}
	if req.CustomFieldResponses != nil {
		registration.CustomFieldResponses = req.CustomFieldResponses
	}

	if err := s.regRepo.UpdateRegistration(registration); err != nil {
		return nil, s.persistence("update registration", err)
	}

	return registration, nil
}

// CancelRegistration removes a registration and releases its link usage slot
// in one transaction.
func (s *RegistrationService) CancelRegistration(id string) error {
	registration, err := s.regRepo.GetRegistrationByID(id)
	if err != nil {
		return apperr.ErrRegistrationMissing
	}

	if err := s.regRepo.CancelRegistration(registration); err != nil {
		if appErr, ok := apperr.As(err); ok {
			return appErr
		}
		return s.persistence("cancel registration", err)
	}

	logger.WithField("camp_id", registration.CampID.String()).
		Infof("Registration cancelled: %s %s", registration.Surname, registration.LastName)
	return nil
}

func (s *RegistrationService) UpdatePaymentStatus(id string, hasPaid bool, method, transactionID string) (*models.Registration, error) {
	registration, err := s.regRepo.GetRegistrationByID(id)
	if err != nil {
		return nil, apperr.ErrRegistrationMissing
	}

	registration.HasPaid = hasPaid
	if err := s.regRepo.UpdateRegistration(registration); err != nil {
		return nil, s.persistence("update payment status", err)
	}

	if hasPaid {
		logger.WithFields(map[string]interface{}{
			"registration_id": id,
			"method":          method,
			"transaction_id":  transactionID,
		}).Infof("Payment recorded")
	}

	return registration, nil
}

func (s *RegistrationService) UpdateCheckInStatus(id string, hasCheckedIn bool) (*models.Registration, error) {
	registration, err := s.regRepo.GetRegistrationByID(id)
	if err != nil {
		return nil, apperr.ErrRegistrationMissing
	}

	registration.HasCheckedIn = hasCheckedIn
	if err := s.regRepo.UpdateRegistration(registration); err != nil {
		return nil, s.persistence("update check-in status", err)
	}

	return registration, nil
}

func (s *RegistrationService) persistence(op string, err error) error {
	logger.Errorf("Database error (%s): %v", op, err)
	return apperr.ErrPersistence
}
