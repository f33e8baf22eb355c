package server

import (
	"errors"
	"time"

	"rewear/internal/middleware"
	"rewear/internal/observability"
	"rewear/internal/service"

	"github.com/gofiber/fiber/v2"
)

const imageCacheControl = "public, max-age=86400"

// ProxyImage handles GET /api/image-proxy?url=. Errors are plain text so
// an <img> tag pointing here fails quietly.
// @Summary Relay a remote image
// @Tags images
// @Produce octet-stream
// @Param url query string true "Absolute http(s) image URL"
// @Success 200 {file} binary
// @Failure 400 {string} string
// @Failure 413 {string} string
// @Failure 502 {string} string
// @Router /image-proxy [get]
func (s *Server) ProxyImage(c *fiber.Ctx) error {
	img, err := s.imageProxy.Fetch(c.UserContext(), c.Query("url"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingURL),
			errors.Is(err, service.ErrInvalidURL),
			errors.Is(err, service.ErrInvalidProtocol):
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		case errors.Is(err, service.ErrTooLarge):
			c.Status(fiber.StatusRequestEntityTooLarge)
			return nil
		case errors.Is(err, service.ErrUpstream):
			middleware.Logger.WarnContext(c.UserContext(), "image proxy upstream failure", "error", err.Error())
			return c.Status(fiber.StatusBadGateway).SendString(service.ErrUpstream.Error())
		default:
			return c.Status(fiber.StatusInternalServerError).SendString("proxy error")
		}
	}

	c.Set(fiber.HeaderContentType, img.ContentType)
	c.Set(fiber.HeaderCacheControl, imageCacheControl)
	return c.Send(img.Body)
}

// imageProxyLimit applies the per-IP proxy quota and counts rejections.
func (s *Server) imageProxyLimit() fiber.Handler {
	limit := s.rateLimiter.Limit("image_proxy", 120, time.Minute, middleware.FailOpen)
	return func(c *fiber.Ctx) error {
		err := limit(c)
		if c.Response().StatusCode() == fiber.StatusTooManyRequests {
			observability.ImageProxyResults.WithLabelValues(observability.ProxyResultRateLimit).Inc()
		}
		return err
	}
}
