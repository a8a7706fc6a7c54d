package handlers

import (
	"time"

	"camp-management-backend/internal/middleware"
	"camp-management-backend/internal/services"
	"camp-management-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateCampRequest struct {
	Name                 string    `json:"name" validate:"required"`
	StartDate            time.Time `json:"start_date" validate:"required"`
	EndDate              time.Time `json:"end_date" validate:"required"`
	Location             string    `json:"location" validate:"required"`
	BaseFee              float64   `json:"base_fee" validate:"gte=0"`
	Capacity             int       `json:"capacity" validate:"required,gte=1"`
	Description          string    `json:"description"`
	RegistrationDeadline time.Time `json:"registration_deadline" validate:"required"`
}

type UpdateCampRequest struct {
	Name                 *string    `json:"name"`
	StartDate            *time.Time `json:"start_date"`
	EndDate              *time.Time `json:"end_date"`
	Location             *string    `json:"location"`
	BaseFee              *float64   `json:"base_fee"`
	Capacity             *int       `json:"capacity"`
	Description          *string    `json:"description"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	IsActive             *bool      `json:"is_active"`
}

// CreateCamp creates a camp owned by the authenticated manager
// @Summary Create camp
// @Tags Camps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCampRequest true "Camp data"
// @Success 201 {object} utils.Response
// @Router /camps [post]
func (h *Handler) CreateCamp(c *fiber.Ctx) error {
	var req CreateCampRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return utils.Error(c, err.Error(), fiber.StatusUnauthorized)
	}

	camp, err := h.campSvc.CreateCamp(services.CreateCampRequest{
		Name:                 req.Name,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		Location:             req.Location,
		BaseFee:              req.BaseFee,
		Capacity:             req.Capacity,
		Description:          req.Description,
		RegistrationDeadline: req.RegistrationDeadline,
		ManagerID:            userID,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, camp, "Camp created successfully", fiber.StatusCreated)
}

// ListMyCamps lists camps the authenticated user works on
// @Summary List camps
// @Tags Camps
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Response
// @Router /camps [get]
func (h *Handler) ListMyCamps(c *fiber.Ctx) error {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return utils.Error(c, err.Error(), fiber.StatusUnauthorized)
	}

	camps, err := h.campSvc.GetUserCamps(userID)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, camps, "Camps retrieved successfully")
}

func (h *Handler) GetCamp(c *fiber.Ctx) error {
	campID := c.Params("id")
	if _, err := uuid.Parse(campID); err != nil {
		return utils.Error(c, "Invalid camp ID", fiber.StatusBadRequest)
	}
	if err := h.ensureCampManager(c, campID); err != nil {
		return err
	}

	camp, err := h.campSvc.GetCamp(campID)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, camp, "Camp retrieved successfully")
}

func (h *Handler) UpdateCamp(c *fiber.Ctx) error {
	campID := c.Params("id")
	if _, err := uuid.Parse(campID); err != nil {
		return utils.Error(c, "Invalid camp ID", fiber.StatusBadRequest)
	}
	if err := h.ensureCampManager(c, campID); err != nil {
		return err
	}

	var req UpdateCampRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}

	camp, err := h.campSvc.UpdateCamp(campID, services.UpdateCampRequest{
		Name:                 req.Name,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		Location:             req.Location,
		BaseFee:              req.BaseFee,
		Capacity:             req.Capacity,
		Description:          req.Description,
		RegistrationDeadline: req.RegistrationDeadline,
		IsActive:             req.IsActive,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, camp, "Camp updated successfully")
}

func (h *Handler) DeleteCamp(c *fiber.Ctx) error {
	campID := c.Params("id")
	if _, err := uuid.Parse(campID); err != nil {
		return utils.Error(c, "Invalid camp ID", fiber.StatusBadRequest)
	}
	if err := h.ensureCampManager(c, campID); err != nil {
		return err
	}

	if err := h.campSvc.DeleteCamp(campID); err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, nil, "Camp deleted successfully")
}

// GetCampStats returns registration statistics for a camp
// @Summary Camp statistics
// @Tags Camps
// @Produce json
// @Security BearerAuth
// @Param id path string true "Camp ID"
// @Success 200 {object} utils.Response
// @Router /camps/{id}/stats [get]
func (h *Handler) GetCampStats(c *fiber.Ctx) error {
	campID := c.Params("id")
	if _, err := uuid.Parse(campID); err != nil {
		return utils.Error(c, "Invalid camp ID", fiber.StatusBadRequest)
	}
	if err := h.ensureCampManager(c, campID); err != nil {
		return err
	}

	stats, err := h.campSvc.GetCampStats(campID)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, stats, "Camp statistics retrieved successfully")
}

// === Churches ===

type ChurchPayload struct {
	Name     string `json:"name" validate:"required"`
	District string `json:"district"`
	Area     string `json:"area"`
}

type CreateChurchesRequest struct {
	Churches []ChurchPayload `json:"churches" validate:"required,min=1,dive"`
}

func (h *Handler) CreateChurches(c *fiber.Ctx) error {
	campID := c.Params("id")
	if _, err := uuid.Parse(campID); err != nil {
		return utils.Error(c, "Invalid camp ID", fiber.StatusBadRequest)
	}
	if err := h.ensureCampManager(c, campID); err != nil {
		return err
	}

	var req CreateChurchesRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	reqs := make([]services.ChurchRequest, 0, len(req.Churches))
	for _, church := range req.Churches {
		reqs = append(reqs, services.ChurchRequest{
			Name:     church.Name,
			District: church.District,
			Area:     church.Area,
			CampID:   campID,
		})
	}

	churches, err := h.campSvc.CreateChurches(reqs)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, churches, "Churches created successfully", fiber.StatusCreated)
}

func (h *Handler) ListChurches(c *fiber.Ctx) error {
	campID := c.Params("id")
	if _, err := uuid.Parse(campID); err != nil {
		return utils.Error(c, "Invalid camp ID", fiber.StatusBadRequest)
	}

	churches, err := h.campSvc.GetCampChurches(campID)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, churches, "Churches retrieved successfully")
}

type UpdateChurchRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *Handler) UpdateChurch(c *fiber.Ctx) error {
	churchID := c.Params("id")
	if _, err := uuid.Parse(churchID); err != nil {
		return utils.Error(c, "Invalid church ID", fiber.StatusBadRequest)
	}

	var req UpdateChurchRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	church, err := h.campSvc.UpdateChurch(churchID, req.Name)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, church, "Church updated successfully")
}

func (h *Handler) DeleteChurch(c *fiber.Ctx) error {
	churchID := c.Params("id")
	if _, err := uuid.Parse(churchID); err != nil {
		return utils.Error(c, "Invalid church ID", fiber.StatusBadRequest)
	}

	if err := h.campSvc.DeleteChurch(churchID); err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, nil, "Church deleted successfully")
}

// === Categories ===

type CreateCategoryRequest struct {
	Name               string  `json:"name" validate:"required"`
	DiscountPercentage float64 `json:"discount_percentage" validate:"gte=0,lte=100"`
	DiscountAmount     float64 `json:"discount_amount" validate:"gte=0"`
	IsDefault          bool    `json:"is_default"`
}

func (h *Handler) CreateCategory(c *fiber.Ctx) error {
	campID := c.Params("id")
	if _, err := uuid.Parse(campID); err != nil {
		return utils.Error(c, "Invalid camp ID", fiber.StatusBadRequest)
	}
	if err := h.ensureCampManager(c, campID); err != nil {
		return err
	}

	var req CreateCategoryRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	category, err := h.campSvc.CreateCategory(services.CategoryRequest{
		Name:               req.Name,
		CampID:             campID,
		DiscountPercentage: req.DiscountPercentage,
		DiscountAmount:     req.DiscountAmount,
		IsDefault:          req.IsDefault,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, category, "Category created successfully", fiber.StatusCreated)
}

func (h *Handler) ListCategories(c *fiber.Ctx) error {
	campID := c.Params("id")
	if _, err := uuid.Parse(campID); err != nil {
		return utils.Error(c, "Invalid camp ID", fiber.StatusBadRequest)
	}

	categories, err := h.campSvc.GetCampCategories(campID)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, categories, "Categories retrieved successfully")
}

type UpdateCategoryRequest struct {
	Name               *string  `json:"name"`
	DiscountPercentage *float64 `json:"discount_percentage"`
	DiscountAmount     *float64 `json:"discount_amount"`
	IsDefault          *bool    `json:"is_default"`
}

func (h *Handler) UpdateCategory(c *fiber.Ctx) error {
	categoryID := c.Params("id")
	if _, err := uuid.Parse(categoryID); err != nil {
		return utils.Error(c, "Invalid category ID", fiber.StatusBadRequest)
	}

	var req UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}

	category, err := h.campSvc.UpdateCategory(categoryID, services.UpdateCategoryRequest{
		Name:               req.Name,
		DiscountPercentage: req.DiscountPercentage,
		DiscountAmount:     req.DiscountAmount,
		IsDefault:          req.IsDefault,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, category, "Category updated successfully")
}

func (h *Handler) DeleteCategory(c *fiber.Ctx) error {
	categoryID := c.Params("id")
	if _, err := uuid.Parse(categoryID); err != nil {
		return utils.Error(c, "Invalid category ID", fiber.StatusBadRequest)
	}

	if err := h.campSvc.DeleteCategory(categoryID); err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, nil, "Category deleted successfully")
}

// === Custom fields ===

type CreateCustomFieldRequest struct {
	FieldName  string   `json:"field_name" validate:"required"`
	FieldType  string   `json:"field_type" validate:"required,oneof=text number dropdown checkbox date"`
	IsRequired bool     `json:"is_required"`
	Options    []string `json:"options"`
	Order      int      `json:"order"`
}

func (h *Handler) CreateCustomField(c *fiber.Ctx) error {
	campID := c.Params("id")
	if _, err := uuid.Parse(campID); err != nil {
		return utils.Error(c, "Invalid camp ID", fiber.StatusBadRequest)
	}
	if err := h.ensureCampManager(c, campID); err != nil {
		return err
	}

	var req CreateCustomFieldRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	field, err := h.campSvc.CreateCustomField(services.CustomFieldRequest{
		FieldName:  req.FieldName,
		FieldType:  req.FieldType,
		CampID:     campID,
		IsRequired: req.IsRequired,
		Options:    req.Options,
		Order:      req.Order,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, field, "Custom field created successfully", fiber.StatusCreated)
}

func (h *Handler) ListCustomFields(c *fiber.Ctx) error {
	campID := c.Params("id")
	if _, err := uuid.Parse(campID); err != nil {
		return utils.Error(c, "Invalid camp ID", fiber.StatusBadRequest)
	}

	fields, err := h.campSvc.GetCampCustomFields(campID)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, fields, "Custom fields retrieved successfully")
}

type UpdateCustomFieldRequest struct {
	FieldName  *string  `json:"field_name"`
	FieldType  *string  `json:"field_type"`
	IsRequired *bool    `json:"is_required"`
	Options    []string `json:"options"`
	Order      *int     `json:"order"`
}

func (h *Handler) UpdateCustomField(c *fiber.Ctx) error {
	fieldID := c.Params("id")
	if _, err := uuid.Parse(fieldID); err != nil {
		return utils.Error(c, "Invalid custom field ID", fiber.StatusBadRequest)
	}

	var req UpdateCustomFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}

	field, err := h.campSvc.UpdateCustomField(fieldID, services.UpdateCustomFieldRequest{
		FieldName:  req.FieldName,
		FieldType:  req.FieldType,
		IsRequired: req.IsRequired,
		Options:    req.Options,
		Order:      req.Order,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, field, "Custom field updated successfully")
}

func (h *Handler) DeleteCustomField(c *fiber.Ctx) error {
	fieldID := c.Params("id")
	if _, err := uuid.Parse(fieldID); err != nil {
		return utils.Error(c, "Invalid custom field ID", fiber.StatusBadRequest)
	}

	if err := h.campSvc.DeleteCustomField(fieldID); err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, nil, "Custom field deleted successfully")
}
