package server

import (
	"rewear/internal/models"
	"rewear/internal/service"

	"github.com/gofiber/fiber/v2"
)

type nameRequest struct {
	Name string `json:"name" validate:"max=80"`
}

type emailRequest struct {
	Email string `json:"email" validate:"max=254"`
}

type contactRequest struct {
	Contact string `json:"contact"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword" validate:"max=128"`
}

// GetMe handles GET /api/me
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{user=models.User}
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /me [get]
func (s *Server) GetMe(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	user, err := s.userService.GetUserByID(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// UpdateMyName handles PUT /api/me
func (s *Server) UpdateMyName(c *fiber.Ctx) error {
	var req nameRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, _ := currentUserID(c)
	if err := s.userService.UpdateName(c.UserContext(), userID, req.Name); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// UpdateMyEmail handles PUT /api/me/email
func (s *Server) UpdateMyEmail(c *fiber.Ctx) error {
	var req emailRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, _ := currentUserID(c)
	if err := s.userService.UpdateEmail(c.UserContext(), userID, req.Email); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// UpdateMyContact handles PUT /api/me/contact
func (s *Server) UpdateMyContact(c *fiber.Ctx) error {
	var req contactRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, _ := currentUserID(c)
	if err := s.userService.UpdateContact(c.UserContext(), userID, req.Contact); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// ChangeMyPassword handles PUT /api/me/password
// @Summary Change password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body changePasswordRequest true "Old and new password"
// @Success 200 {object} object{ok=bool}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /me/password [put]
func (s *Server) ChangeMyPassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, _ := currentUserID(c)
	err := s.userService.ChangePassword(c.UserContext(), service.ChangePasswordInput{
		UserID:      userID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// GetUserProfile handles GET /api/users/:id
// @Summary Public seller profile
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{user=models.User}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": publicProfile(user)})
}

// publicProfile strips account-only fields. Contact stays because buyers
// reach sellers through it.
func publicProfile(u *models.User) fiber.Map {
	return fiber.Map{
		"id":          u.ID,
		"name":        u.Name,
		"email":       u.Email,
		"location":    u.Location,
		"contact":     u.Contact,
		"role":        u.Role,
		"ratingAvg":   u.RatingAvg,
		"ratingCount": u.RatingCount,
		"createdAt":   u.CreatedAt,
	}
}
