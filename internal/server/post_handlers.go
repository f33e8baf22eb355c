package server

import (
	"strconv"
	"strings"

	"rewear/internal/models"
	"rewear/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Title       string     `json:"title" validate:"max=120"`
	Description string     `json:"description" validate:"max=4000"`
	Price       flexNumber `json:"price"`
	TradeType   string     `json:"tradeType"`
	Size        string     `json:"size" validate:"max=40"`
	Condition   string     `json:"condition" validate:"max=60"`
	CategoryID  flexNumber `json:"categoryId"`
	Location    string     `json:"location" validate:"max=80"`
	ImageURL    string     `json:"imageUrl" validate:"max=2048"`
}

// GetCategories handles GET /api/categories
// @Summary List categories
// @Tags posts
// @Produce json
// @Success 200 {object} object{categories=[]models.Category}
// @Router /categories [get]
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.categoryRepo.List(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// GetPosts handles GET /api/posts
// @Summary Browse and search listings
// @Description Returns at most 200 listings, newest first
// @Tags posts
// @Produce json
// @Param q query string false "Substring of title or description"
// @Param categoryId query int false "Category ID"
// @Param size query string false "Exact size"
// @Param location query string false "Substring of location"
// @Param tradeType query string false "sale, exchange or free"
// @Param userId query int false "Owner ID"
// @Success 200 {object} object{posts=[]models.PostView}
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	filter := models.PostFilter{
		Query:      strings.TrimSpace(c.Query("q")),
		CategoryID: queryUint(c, "categoryId"),
		Size:       strings.TrimSpace(c.Query("size")),
		Location:   strings.TrimSpace(c.Query("location")),
		TradeType:  strings.TrimSpace(c.Query("tradeType")),
		UserID:     queryUint(c, "userId"),
	}

	posts, err := s.postService.ListPosts(c.UserContext(), filter)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetPost handles GET /api/posts/:id
// @Summary Get a listing
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} object{post=models.PostView}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"post": post})
}

// CreatePost handles POST /api/posts
// @Summary Create a listing
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createPostRequest true "Listing"
// @Success 201 {object} object{post=models.Post}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	userID, _ := currentUserID(c)

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price.Value,
		TradeType:   strings.TrimSpace(req.TradeType),
		Size:        req.Size,
		Condition:   req.Condition,
		CategoryID:  req.CategoryID.ID(),
		Location:    req.Location,
		ImageURL:    strings.TrimSpace(req.ImageURL),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"post": post})
}

// queryUint parses a positive integer query parameter. Anything else is
// treated as absent.
func queryUint(c *fiber.Ctx, key string) uint {
	v, err := strconv.ParseUint(strings.TrimSpace(c.Query(key)), 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}
