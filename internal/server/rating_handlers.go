package server

import (
	"rewear/internal/models"
	"rewear/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createRatingRequest struct {
	RateeID flexNumber `json:"rateeId"`
	Stars   flexNumber `json:"stars"`
	Comment string     `json:"comment"`
}

type rateUserRequest struct {
	Stars   flexNumber `json:"stars"`
	Comment string     `json:"comment"`
}

// CreateRating handles POST /api/ratings. It shares the transactional
// path with RateUser, so the seller aggregate is always refreshed.
// @Summary Rate a user
// @Tags ratings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createRatingRequest true "Rating"
// @Success 200 {object} object{ok=bool}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /ratings [post]
func (s *Server) CreateRating(c *fiber.Ctx) error {
	var req createRatingRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.RateeID.ID() == nil || !req.Stars.Set || req.Stars.Value == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("rateeId/stars required"))
	}
	userID, _ := currentUserID(c)

	_, err := s.ratingService.Rate(c.UserContext(), service.RateInput{
		RaterID: userID,
		RateeID: *req.RateeID.ID(),
		Stars:   req.Stars.Value,
		Comment: req.Comment,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// RateUser handles POST /api/users/:id/rate
// @Summary Rate a seller
// @Tags ratings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Seller ID"
// @Param request body rateUserRequest true "Rating"
// @Success 200 {object} object{ok=bool,ratingAvg=number,ratingCount=int}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/rate [post]
func (s *Server) RateUser(c *fiber.Ctx) error {
	rateeID, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req rateUserRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, _ := currentUserID(c)

	summary, err := s.ratingService.Rate(c.UserContext(), service.RateInput{
		RaterID: userID,
		RateeID: rateeID,
		Stars:   req.Stars.Value,
		Comment: req.Comment,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"ok":          true,
		"ratingAvg":   summary.Average,
		"ratingCount": summary.Count,
	})
}
