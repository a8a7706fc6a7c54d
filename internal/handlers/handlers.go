package handlers

import (
	"camp-management-backend/internal/apperr"
	"camp-management-backend/internal/config"
	"camp-management-backend/internal/middleware"
	"camp-management-backend/internal/services"
	"camp-management-backend/internal/utils"
	"camp-management-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	authSvc *services.AuthService
	campSvc *services.CampService
	linkSvc *services.LinkService
	regSvc  *services.RegistrationService
	cfg     *config.Config
}

func NewHandler(
	authSvc *services.AuthService,
	campSvc *services.CampService,
	linkSvc *services.LinkService,
	regSvc *services.RegistrationService,
	cfg *config.Config,
) *Handler {
	return &Handler{
		authSvc: authSvc,
		campSvc: campSvc,
		linkSvc: linkSvc,
		regSvc:  regSvc,
		cfg:     cfg,
	}
}

func (h *Handler) RegisterRoutes(router fiber.Router) {
	// Public routes
	auth := router.Group("/auth")
	{
		auth.Post("/login", h.Login)
		auth.Post("/register", h.RegisterUser)
	}

	// Public registration routes
	register := router.Group("/register")
	{
		register.Get("/check/:token", h.CheckRegistrationLink)
		register.Get("/link/:token", h.GetLinkRegistrationForm)
		register.Post("/link/:token", h.SubmitRegistrationByLink)
		register.Get("/:camp_id/form", h.GetRegistrationForm)
		register.Post("/:camp_id", h.SubmitRegistration)
	}

	// Protected routes (JWT required)
	protected := router.Group("", middleware.JWTMiddleware(h.cfg))
	{
		protected.Get("/profile", h.GetProfile)

		// Camp management (camp managers only)
		camps := protected.Group("/camps", middleware.ManagerOnly)
		{
			camps.Post("/", h.CreateCamp)
			camps.Get("/", h.ListMyCamps)
			camps.Get("/:id", h.GetCamp)
			camps.Put("/:id", h.UpdateCamp)
			camps.Delete("/:id", h.DeleteCamp)
			camps.Get("/:id/stats", h.GetCampStats)

			camps.Post("/:id/churches", h.CreateChurches)
			camps.Get("/:id/churches", h.ListChurches)
			camps.Post("/:id/categories", h.CreateCategory)
			camps.Get("/:id/categories", h.ListCategories)
			camps.Post("/:id/custom-fields", h.CreateCustomField)
			camps.Get("/:id/custom-fields", h.ListCustomFields)
			camps.Post("/:id/links", h.CreateLink)
			camps.Get("/:id/links", h.ListLinks)
			camps.Get("/:id/registrations", h.ListRegistrations)
		}

		churches := protected.Group("/churches", middleware.ManagerOnly)
		{
			churches.Put("/:id", h.UpdateChurch)
			churches.Delete("/:id", h.DeleteChurch)
		}

		categories := protected.Group("/categories", middleware.ManagerOnly)
		{
			categories.Put("/:id", h.UpdateCategory)
			categories.Delete("/:id", h.DeleteCategory)
		}

		customFields := protected.Group("/custom-fields", middleware.ManagerOnly)
		{
			customFields.Put("/:id", h.UpdateCustomField)
			customFields.Delete("/:id", h.DeleteCustomField)
		}

		links := protected.Group("/links", middleware.ManagerOnly)
		{
			links.Put("/:id", h.UpdateLink)
			links.Post("/:id/toggle", h.ToggleLink)
			links.Delete("/:id", h.DeleteLink)
		}

		// Registration management (volunteers can update payments/check-ins)
		registrations := protected.Group("/registrations", middleware.WorkerOrAbove)
		{
			registrations.Get("/:id", h.GetRegistration)
			registrations.Put("/:id", h.UpdateRegistration)
			registrations.Delete("/:id", h.CancelRegistration)
			registrations.Patch("/:id/payment-status", h.UpdatePaymentStatus)
			registrations.Patch("/:id/checkin", h.UpdateCheckInStatus)
		}
	}
}

// ErrorHandler handles global errors
func ErrorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := apperr.As(err); ok {
		return respondAppError(c, appErr)
	}

	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	if code >= 500 {
		logger.Errorf("Internal error: %v", err)
	}

	return utils.Error(c, message, code)
}

// respondAppError maps a typed service error to its structured rejection.
func respondAppError(c *fiber.Ctx, appErr *apperr.Error) error {
	if appErr.Status >= 500 {
		logger.WithField("code", appErr.Code).Errorf("Request failed: %s", appErr.Message)
	}
	return utils.Reject(c, appErr.Status, utils.Rejection{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	})
}

// serviceError routes service failures through the typed-rejection path.
func serviceError(c *fiber.Ctx, err error) error {
	if appErr, ok := apperr.As(err); ok {
		return respondAppError(c, appErr)
	}
	return utils.Error(c, err.Error(), fiber.StatusBadRequest)
}

// ensureCampManager verifies the authenticated user manages the camp.
func (h *Handler) ensureCampManager(c *fiber.Ctx, campID string) error {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	ok, err := h.campSvc.IsCampManager(userID, campID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to verify camp access")
	}
	if !ok {
		return fiber.NewError(fiber.StatusForbidden, "You do not manage this camp")
	}
	return nil
}
