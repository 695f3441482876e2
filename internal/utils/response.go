package utils

import "github.com/gofiber/fiber/v3"

// SuccessResponse sends a standardized success response
func SuccessResponse(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// CreatedResponse sends a standardized success response with 201 Created
func CreatedResponse(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// ErrorResponse sends a standardized error response
func ErrorResponse(c fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// PaginatedResponse sends a paginated response
func PaginatedResponse(c fiber.Ctx, data any, page, pageSize, total int) error {
	pages := 0
	if pageSize > 0 {
		pages = (total + pageSize - 1) / pageSize
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"pagination": fiber.Map{
			"page":      page,
			"page_size": pageSize,
			"total":     total,
			"pages":     pages,
		},
	})
}

// PNGResponse sends an image without caching; charts are regenerated per request
func PNGResponse(c fiber.Ctx, png []byte) error {
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(png)
}
