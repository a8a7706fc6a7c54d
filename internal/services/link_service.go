package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"camp-management-backend/internal/apperr"
	"camp-management-backend/internal/models"
	"camp-management-backend/internal/repositories"
	"camp-management-backend/pkg/logger"

	"github.com/google/uuid"
)

const linkTokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// LinkService manages shareable registration links.
type LinkService struct {
	repo *repositories.Repository
}

func NewLinkService(repo *repositories.Repository) *LinkService {
	return &LinkService{repo: repo}
}

type CreateLinkRequest struct {
	CampID            string
	Name              string
	AllowedCategories []string
	ExpiresAt         *time.Time
	UsageLimit        *int
	CreatedBy         string
}

func (s *LinkService) CreateLink(req CreateLinkRequest) (*models.RegistrationLink, error) {
	if len(req.AllowedCategories) == 0 {
		return nil, apperr.Validation("At least one category must be allowed")
	}
	if req.ExpiresAt != nil && !req.ExpiresAt.After(time.Now().UTC()) {
		return nil, apperr.Validation("Expiration date must be in the future")
	}
	if req.UsageLimit != nil && *req.UsageLimit < 1 {
		return nil, apperr.Validation("Usage limit must be at least 1")
	}

	campID, err := uuid.Parse(req.CampID)
	if err != nil {
		return nil, apperr.Validation("Invalid camp ID")
	}
	createdBy, err := uuid.Parse(req.CreatedBy)
	if err != nil {
		return nil, apperr.Validation("Invalid creator ID")
	}

	// Every allowed category must belong to the camp.
	categories, err := s.repo.CampRepo.GetCategoriesByIDs(req.CampID, req.AllowedCategories)
	if err != nil {
		return nil, apperr.ErrPersistence
	}
	if len(categories) != len(req.AllowedCategories) {
		return nil, apperr.Validation("One or more allowed categories do not belong to this camp")
	}

	token, err := GenerateLinkToken(req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to generate link token: %w", err)
	}

	link := &models.RegistrationLink{
		ID:                uuid.New(),
		CampID:            campID,
		LinkToken:         token,
		Name:              strings.TrimSpace(req.Name),
		AllowedCategories: req.AllowedCategories,
		IsActive:          true,
		ExpiresAt:         req.ExpiresAt,
		UsageLimit:        req.UsageLimit,
		CreatedBy:         createdBy,
	}

	if err := s.repo.LinkRepo.CreateLink(link); err != nil {
		logger.Errorf("Database error creating registration link: %v", err)
		return nil, apperr.ErrPersistence
	}

	logger.WithField("camp_id", req.CampID).Infof("Registration link created: %s", link.Name)
	return link, nil
}

// GenerateLinkToken builds a shareable token: a 3-character slug from the link
// name plus 12 random lowercase-alphanumeric characters, e.g. "reg_a1b2c3d4e5f6".
func GenerateLinkToken(name string) (string, error) {
	prefix := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	if prefix == "" {
		prefix = "reg"
	}

	suffix := make([]byte, 12)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(linkTokenAlphabet))))
		if err != nil {
			return "", err
		}
		suffix[i] = linkTokenAlphabet[n.Int64()]
	}

	return fmt.Sprintf("%s_%s", prefix, suffix), nil
}

func (s *LinkService) GetLink(id string) (*models.RegistrationLink, error) {
	link, err := s.repo.LinkRepo.GetLinkByID(id)
	if err != nil {
		return nil, apperr.ErrInvalidLink
	}
	return link, nil
}

func (s *LinkService) GetLinkByToken(token string) (*models.RegistrationLink, error) {
	link, err := s.repo.LinkRepo.GetLinkByToken(token)
	if err != nil {
		return nil, apperr.ErrInvalidLink
	}
	return link, nil
}

func (s *LinkService) GetCampLinks(campID string) ([]models.RegistrationLink, error) {
	links, err := s.repo.LinkRepo.GetLinksByCamp(campID)
	if err != nil {
		return nil, apperr.ErrPersistence
	}
	return links, nil
}

type UpdateLinkRequest struct {
	Name              *string
	AllowedCategories []string
	ExpiresAt         *time.Time
	UsageLimit        *int
	IsActive          *bool
}

func (s *LinkService) UpdateLink(id string, req UpdateLinkRequest) (*models.RegistrationLink, error) {
	link, err := s.repo.LinkRepo.GetLinkByID(id)
	if err != nil {
		return nil, apperr.ErrInvalidLink
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Validation("Link name cannot be empty")
		}
		link.Name = name
	}
	if req.AllowedCategories != nil {
		if len(req.AllowedCategories) == 0 {
			return nil, apperr.Validation("At least one category must be allowed")
		}
		categories, err := s.repo.CampRepo.GetCategoriesByIDs(link.CampID.String(), req.AllowedCategories)
		if err != nil {
			return nil, apperr.ErrPersistence
		}
		if len(categories) != len(req.AllowedCategories) {
			return nil, apperr.Validation("One or more allowed categories do not belong to this camp")
		}
		link.AllowedCategories = req.AllowedCategories
	}
	if req.ExpiresAt != nil {
		if !req.ExpiresAt.After(time.Now().UTC()) {
			return nil, apperr.Validation("Expiration date must be in the future")
		}
		link.ExpiresAt = req.ExpiresAt
	}
	if req.UsageLimit != nil {
		if *req.UsageLimit < 1 {
			return nil, apperr.Validation("Usage limit must be at least 1")
		}
		link.UsageLimit = req.UsageLimit
	}
	if req.IsActive != nil {
		link.IsActive = *req.IsActive
	}

	if err := s.repo.LinkRepo.UpdateLink(link); err != nil {
		logger.Errorf("Database error updating registration link: %v", err)
		return nil, apperr.ErrPersistence
	}

	return link, nil
}

func (s *LinkService) ToggleLink(id string) (*models.RegistrationLink, error) {
	link, err := s.repo.LinkRepo.GetLinkByID(id)
	if err != nil {
		return nil, apperr.ErrInvalidLink
	}

	link.IsActive = !link.IsActive
	if err := s.repo.LinkRepo.UpdateLink(link); err != nil {
		logger.Errorf("Database error toggling registration link: %v", err)
		return nil, apperr.ErrPersistence
	}

	return link, nil
}

func (s *LinkService) DeleteLink(id string) error {
	link, err := s.repo.LinkRepo.GetLinkByID(id)
	if err != nil {
		return apperr.ErrInvalidLink
	}

	count, err := s.repo.LinkRepo.CountLinkRegistrations(id)
	if err != nil {
		return apperr.ErrPersistence
	}
	if count > 0 {
		return apperr.Validation("Cannot delete registration link with existing registrations")
	}

	if err := s.repo.LinkRepo.DeleteLink(id); err != nil {
		logger.Errorf("Database error deleting registration link: %v", err)
		return apperr.ErrPersistence
	}

	logger.Infof("Registration link deleted: %s", link.Name)
	return nil
}

// LinkStatus is the public status payload for a shareable link.
type LinkStatus struct {
	IsValid              bool       `json:"is_valid"`
	CampName             string     `json:"camp_name"`
	LinkName             string     `json:"link_name"`
	ExpiresAt            *time.Time `json:"expires_at"`
	UsageCount           int        `json:"usage_count"`
	UsageLimit           *int       `json:"usage_limit"`
	RegistrationDeadline time.Time  `json:"registration_deadline"`
	CampCapacity         int        `json:"camp_capacity"`
	CurrentRegistrations int64      `json:"current_registrations"`
}

// CheckLink reports link validity along with overall registration availability
// for the camp (deadline and remaining capacity also gate it).
func (s *LinkService) CheckLink(token string) (*LinkStatus, error) {
	link, err := s.repo.LinkRepo.GetLinkByToken(token)
	if err != nil {
		return nil, apperr.ErrInvalidLink
	}

	camp, err := s.repo.CampRepo.GetCampByID(link.CampID.String())
	if err != nil {
		return nil, apperr.ErrPersistence
	}

	count, err := s.repo.RegistrationRepo.CountRegistrationsByCamp(link.CampID.String())
	if err != nil {
		return nil, apperr.ErrPersistence
	}

	now := time.Now().UTC()
	isValid := link.IsValid(now)
	if now.After(camp.RegistrationDeadline) {
		isValid = false
	}
	if count >= int64(camp.Capacity) {
		isValid = false
	}

	return &LinkStatus{
		IsValid:              isValid,
		CampName:             camp.Name,
		LinkName:             link.Name,
		ExpiresAt:            link.ExpiresAt,
		UsageCount:           link.UsageCount,
		UsageLimit:           link.UsageLimit,
		RegistrationDeadline: camp.RegistrationDeadline,
		CampCapacity:         camp.Capacity,
		CurrentRegistrations: count,
	}, nil
}
