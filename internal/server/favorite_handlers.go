package server

import (
	"github.com/gofiber/fiber/v2"
)

// ToggleFavorite handles POST /api/favorites/:postId
// @Summary Save or unsave a listing
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} object{favorited=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /favorites/{postId} [post]
func (s *Server) ToggleFavorite(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	userID, _ := currentUserID(c)

	favorited, err := s.favoriteService.Toggle(c.UserContext(), userID, postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"favorited": favorited})
}

// GetFavorites handles GET /api/favorites
func (s *Server) GetFavorites(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	posts, err := s.favoriteService.List(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}
