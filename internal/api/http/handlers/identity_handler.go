package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/service"
)

// IdentityHandler serves read projections of user identity. Serialization
// happens here; the identity core never sees the wire format.
type IdentityHandler struct {
	identity *service.IdentityService
}

// NewIdentityHandler constructs handler.
func NewIdentityHandler(identityService *service.IdentityService) *IdentityHandler {
	return &IdentityHandler{identity: identityService}
}

// GetUser handles GET /identity/users/:id. `?profile=false` omits the
// role-specific profile.
func (h *IdentityHandler) GetUser(c *fiber.Ctx) error {
	userID := c.Params("id")
	if userID == "" {
		return fiber.NewError(http.StatusBadRequest, "user id required")
	}
	includeProfile := c.QueryBool("profile", true)

	data, err := h.identity.UserData(c.UserContext(), userID, includeProfile)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": data})
}

// Me handles GET /identity/me for the authenticated caller.
func (h *IdentityHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	data, err := h.identity.UserData(c.UserContext(), user.ID, true)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": data})
}
