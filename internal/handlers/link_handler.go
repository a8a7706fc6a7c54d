package handlers

import (
	"time"

	"camp-management-backend/internal/middleware"
	"camp-management-backend/internal/services"
	"camp-management-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateLinkRequest struct {
	Name              string     `json:"name" validate:"required"`
	AllowedCategories []string   `json:"allowed_categories" validate:"required,min=1"`
	ExpiresAt         *time.Time `json:"expires_at"`
	UsageLimit        *int       `json:"usage_limit"`
}

// CreateLink creates a shareable registration link for a camp
// @Summary Create registration link
// @Tags Links
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Camp ID"
// @Param request body CreateLinkRequest true "Link data"
// @Success 201 {object} utils.Response
// @Router /camps/{id}/links [post]
func (h *Handler) CreateLink(c *fiber.Ctx) error {
	campID := c.Params("id")
	if _, err := uuid.Parse(campID); err != nil {
		return utils.Error(c, "Invalid camp ID", fiber.StatusBadRequest)
	}
	if err := h.ensureCampManager(c, campID); err != nil {
		return err
	}

	var req CreateLinkRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return utils.Error(c, err.Error(), fiber.StatusUnauthorized)
	}

	link, err := h.linkSvc.CreateLink(services.CreateLinkRequest{
		CampID:            campID,
		Name:              req.Name,
		AllowedCategories: req.AllowedCategories,
		ExpiresAt:         req.ExpiresAt,
		UsageLimit:        req.UsageLimit,
		CreatedBy:         userID,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, link, "Registration link created successfully", fiber.StatusCreated)
}

func (h *Handler) ListLinks(c *fiber.Ctx) error {
	campID := c.Params("id")
	if _, err := uuid.Parse(campID); err != nil {
		return utils.Error(c, "Invalid camp ID", fiber.StatusBadRequest)
	}
	if err := h.ensureCampManager(c, campID); err != nil {
		return err
	}

	links, err := h.linkSvc.GetCampLinks(campID)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, links, "Registration links retrieved successfully")
}

type UpdateLinkRequest struct {
	Name              *string    `json:"name"`
	AllowedCategories []string   `json:"allowed_categories"`
	ExpiresAt         *time.Time `json:"expires_at"`
	UsageLimit        *int       `json:"usage_limit"`
	IsActive          *bool      `json:"is_active"`
}

func (h *Handler) UpdateLink(c *fiber.Ctx) error {
	linkID := c.Params("id")
	if _, err := uuid.Parse(linkID); err != nil {
		return utils.Error(c, "Invalid link ID", fiber.StatusBadRequest)
	}

	var req UpdateLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}

	link, err := h.linkSvc.UpdateLink(linkID, services.UpdateLinkRequest{
		Name:              req.Name,
		AllowedCategories: req.AllowedCategories,
		ExpiresAt:         req.ExpiresAt,
		UsageLimit:        req.UsageLimit,
		IsActive:          req.IsActive,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, link, "Registration link updated successfully")
}

// ToggleLink flips a link between active and inactive
// @Summary Toggle registration link
// @Tags Links
// @Produce json
// @Security BearerAuth
// @Param id path string true "Link ID"
// @Success 200 {object} utils.Response
// @Router /links/{id}/toggle [post]
func (h *Handler) ToggleLink(c *fiber.Ctx) error {
	linkID := c.Params("id")
	if _, err := uuid.Parse(linkID); err != nil {
		return utils.Error(c, "Invalid link ID", fiber.StatusBadRequest)
	}

	link, err := h.linkSvc.ToggleLink(linkID)
	if err != nil {
		return serviceError(c, err)
	}

	message := "Registration link deactivated"
	if link.IsActive {
		message = "Registration link activated"
	}
	return utils.Success(c, link, message)
}

func (h *Handler) DeleteLink(c *fiber.Ctx) error {
	linkID := c.Params("id")
	if _, err := uuid.Parse(linkID); err != nil {
		return utils.Error(c, "Invalid link ID", fiber.StatusBadRequest)
	}

	if err := h.linkSvc.DeleteLink(linkID); err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, nil, "Registration link deleted successfully")
}

// CheckRegistrationLink reports whether a link token currently accepts
// registrations, without exposing camp internals
// @Summary Check registration link
// @Tags Public
// @Produce json
// @Param token path string true "Link token"
// @Success 200 {object} utils.Response
// @Router /register/check/{token} [get]
func (h *Handler) CheckRegistrationLink(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return utils.Error(c, "Link token is required", fiber.StatusBadRequest)
	}

	status, err := h.linkSvc.CheckLink(token)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, status, "Link status retrieved successfully")
}
