package handlers

import (
	"camp-management-backend/internal/middleware"
	"camp-management-backend/internal/services"
	"camp-management-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SubmitRegistrationRequest struct {
	Surname               string                 `json:"surname" validate:"required"`
	MiddleName            string                 `json:"middle_name"`
	LastName              string                 `json:"last_name" validate:"required"`
	Age                   int                    `json:"age" validate:"required,gte=1,lte=150"`
	Email                 string                 `json:"email" validate:"omitempty,email"`
	PhoneNumber           string                 `json:"phone_number" validate:"required"`
	EmergencyContactName  string                 `json:"emergency_contact_name"`
	EmergencyContactPhone string                 `json:"emergency_contact_phone"`
	ChurchID              string                 `json:"church_id" validate:"required,uuid"`
	CategoryID            string                 `json:"category_id" validate:"required,uuid"`
	CustomFieldResponses  map[string]interface{} `json:"custom_field_responses"`
}

func (r *SubmitRegistrationRequest) toServiceRequest(campID string) services.RegistrationRequest {
	return services.RegistrationRequest{
		CampID:                campID,
		Surname:               r.Surname,
		MiddleName:            r.MiddleName,
		LastName:              r.LastName,
		Age:                   r.Age,
		Email:                 r.Email,
		PhoneNumber:           r.PhoneNumber,
		EmergencyContactName:  r.EmergencyContactName,
		EmergencyContactPhone: r.EmergencyContactPhone,
		ChurchID:              r.ChurchID,
		CategoryID:            r.CategoryID,
		CustomFieldResponses:  r.CustomFieldResponses,
	}
}

// GetRegistrationForm returns the public form for a camp's general link
// @Summary Get registration form
// @Tags Public
// @Produce json
// @Param camp_id path string true "Camp ID"
// @Success 200 {object} utils.Response
// @Router /register/{camp_id}/form [get]
func (h *Handler) GetRegistrationForm(c *fiber.Ctx) error {
	campID := c.Params("camp_id")
	if _, err := uuid.Parse(campID); err != nil {
		return utils.Error(c, "Invalid camp ID", fiber.StatusBadRequest)
	}

	form, err := h.regSvc.GetRegistrationForm(campID, "")
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, form, "Registration form retrieved successfully")
}

// GetLinkRegistrationForm returns the form gated by a shareable link token.
// The camp is resolved from the link itself.
// @Summary Get link registration form
// @Tags Public
// @Produce json
// @Param token path string true "Link token"
// @Success 200 {object} utils.Response
// @Router /register/link/{token} [get]
func (h *Handler) GetLinkRegistrationForm(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return utils.Error(c, "Link token is required", fiber.StatusBadRequest)
	}

	link, err := h.linkSvc.GetLinkByToken(token)
	if err != nil {
		return serviceError(c, err)
	}

	form, err := h.regSvc.GetRegistrationForm(link.CampID.String(), token)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, form, "Registration form retrieved successfully")
}

// SubmitRegistration admits a camper through the general form
// @Summary Submit registration
// @Tags Public
// @Accept json
// @Produce json
// @Param camp_id path string true "Camp ID"
// @Param request body SubmitRegistrationRequest true "Registration data"
// @Success 201 {object} utils.Response
// @Failure 422 {object} utils.Rejection
// @Router /register/{camp_id} [post]
func (h *Handler) SubmitRegistration(c *fiber.Ctx) error {
	campID := c.Params("camp_id")
	if _, err := uuid.Parse(campID); err != nil {
		return utils.Error(c, "Invalid camp ID", fiber.StatusBadRequest)
	}

	var req SubmitRegistrationRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	registration, err := h.regSvc.CreateRegistration(req.toServiceRequest(campID), "")
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, registration, "Registration successful", fiber.StatusCreated)
}

// SubmitRegistrationByLink admits a camper through a shareable link
// @Summary Submit registration via link
// @Tags Public
// @Accept json
// @Produce json
// @Param token path string true "Link token"
// @Param request body SubmitRegistrationRequest true "Registration data"
// @Success 201 {object} utils.Response
// @Failure 410 {object} utils.Rejection
// @Router /register/link/{token} [post]
func (h *Handler) SubmitRegistrationByLink(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return utils.Error(c, "Link token is required", fiber.StatusBadRequest)
	}

	link, err := h.linkSvc.GetLinkByToken(token)
	if err != nil {
		return serviceError(c, err)
	}

	var req SubmitRegistrationRequest
	if err := middleware.ValidateBody(&req)(c); err != nil {
		return err
	}

	registration, err := h.regSvc.CreateRegistration(req.toServiceRequest(link.CampID.String()), token)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, registration, "Registration successful", fiber.StatusCreated)
}

// ListRegistrations lists a camp's registrations with pagination
// @Summary List registrations
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Camp ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} utils.Response
// @Router /camps/{id}/registrations [get]
func (h *Handler) ListRegistrations(c *fiber.Ctx) error {
	campID := c.Params("id")
	if _, err := uuid.Parse(campID); err != nil {
		return utils.Error(c, "Invalid camp ID", fiber.StatusBadRequest)
	}
	if err := h.ensureCampManager(c, campID); err != nil {
		return err
	}

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	registrations, total, totalPages, err := h.regSvc.ListRegistrations(campID, page, pageSize)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.SuccessWithMeta(c, registrations, &utils.Meta{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPages,
	}, "Registrations retrieved successfully")
}

func (h *Handler) GetRegistration(c *fiber.Ctx) error {
	registrationID := c.Params("id")
	if _, err := uuid.Parse(registrationID); err != nil {
		return utils.Error(c, "Invalid registration ID", fiber.StatusBadRequest)
	}

	registration, err := h.regSvc.GetRegistration(registrationID)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, registration, "Registration retrieved successfully")
}

type UpdateRegistrationBody struct {
	Surname               *string                `json:"surname"`
	MiddleName            *string                `json:"middle_name"`
	LastName              *string                `json:"last_name"`
	Age                   *int                   `json:"age"`
	Email                 *string                `json:"email"`
	PhoneNumber           *string                `json:"phone_number"`
	EmergencyContactName  *string                `json:"emergency_contact_name"`
	EmergencyContactPhone *string                `json:"emergency_contact_phone"`
	ChurchID              *string                `json:"church_id"`
	CategoryID            *string                `json:"category_id"`
	CustomFieldResponses  map[string]interface{} `json:"custom_field_responses"`
}

func (h *Handler) UpdateRegistration(c *fiber.Ctx) error {
	registrationID := c.Params("id")
	if _, err := uuid.Parse(registrationID); err != nil {
		return utils.Error(c, "Invalid registration ID", fiber.StatusBadRequest)
	}

	var req UpdateRegistrationBody
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}

	registration, err := h.regSvc.UpdateRegistration(registrationID, services.UpdateRegistrationRequest{
		Surname:               req.Surname,
		MiddleName:            req.MiddleName,
		LastName:              req.LastName,
		Age:                   req.Age,
		Email:                 req.Email,
		PhoneNumber:           req.PhoneNumber,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		ChurchID:              req.ChurchID,
		CategoryID:            req.CategoryID,
		CustomFieldResponses:  req.CustomFieldResponses,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, registration, "Registration updated successfully")
}

// CancelRegistration deletes a registration and releases its link slot
// @Summary Cancel registration
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 200 {object} utils.Response
// @Router /registrations/{id} [delete]
func (h *Handler) CancelRegistration(c *fiber.Ctx) error {
	registrationID := c.Params("id")
	if _, err := uuid.Parse(registrationID); err != nil {
		return utils.Error(c, "Invalid registration ID", fiber.StatusBadRequest)
	}

	if err := h.regSvc.CancelRegistration(registrationID); err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, nil, "Registration cancelled successfully")
}

type PaymentStatusRequest struct {
	HasPaid       bool   `json:"has_paid"`
	PaymentMethod string `json:"payment_method"`
	TransactionID string `json:"transaction_id"`
}

func (h *Handler) UpdatePaymentStatus(c *fiber.Ctx) error {
	registrationID := c.Params("id")
	if _, err := uuid.Parse(registrationID); err != nil {
		return utils.Error(c, "Invalid registration ID", fiber.StatusBadRequest)
	}

	var req PaymentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}

	registration, err := h.regSvc.UpdatePaymentStatus(registrationID, req.HasPaid, req.PaymentMethod, req.TransactionID)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, registration, "Payment status updated successfully")
}

type CheckInRequest struct {
	HasCheckedIn bool `json:"has_checked_in"`
}

func (h *Handler) UpdateCheckInStatus(c *fiber.Ctx) error {
	registrationID := c.Params("id")
	if _, err := uuid.Parse(registrationID); err != nil {
		return utils.Error(c, "Invalid registration ID", fiber.StatusBadRequest)
	}

	var req CheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}

	registration, err := h.regSvc.UpdateCheckInStatus(registrationID, req.HasCheckedIn)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, registration, "Check-in status updated successfully")
}
