package server

import (
	"rewear/internal/service"

	"github.com/gofiber/fiber/v2"
)

type sendMessageRequest struct {
	ToUserID flexNumber `json:"toUserId"`
	Content  string     `json:"content" validate:"max=4000"`
	PostID   flexNumber `json:"postId"`
}

// SendMessage handles POST /api/messages
// @Summary Send a direct message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body sendMessageRequest true "Message"
// @Success 201 {object} object{id=int}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /messages [post]
func (s *Server) SendMessage(c *fiber.Ctx) error {
	var req sendMessageRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, _ := currentUserID(c)

	msg, err := s.messageService.Send(c.UserContext(), service.SendMessageInput{
		FromUserID: userID,
		ToUserID:   req.ToUserID.UintOrZero(),
		Content:    req.Content,
		PostID:     req.PostID.ID(),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": msg.ID})
}

// GetThreads handles GET /api/messages/threads
// @Summary Conversation list
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{threads=[]models.Thread}
// @Router /messages/threads [get]
func (s *Server) GetThreads(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	threads, err := s.messageService.Threads(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"threads": threads})
}

// GetConversation handles GET /api/messages?withUserId=
func (s *Server) GetConversation(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	messages, err := s.messageService.Conversation(c.UserContext(), userID, queryUint(c, "withUserId"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}
