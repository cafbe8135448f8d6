package api

import (
	"errors"
	"log"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/platelog/internal/estimation"
	"github.com/terraincognita07/platelog/internal/models"
	"github.com/terraincognita07/platelog/internal/services"
)

func apiError(c *fiber.Ctx, status int, category string, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message, "category": category})
}

// serviceAPIError maps service sentinels onto status codes and error categories.
func serviceAPIError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidEmail):
		return apiError(c, fiber.StatusBadRequest, errorCategoryInvalidInput, "invalid email")
	case errors.Is(err, services.ErrInvalidEntryDate):
		return apiError(c, fiber.StatusBadRequest, errorCategoryInvalidInput, "invalid entry_date, expected YYYY-MM-DD")
	case errors.Is(err, errInvalidToolArguments):
		return apiError(c, fiber.StatusBadRequest, errorCategoryInvalidInput, err.Error())
	case errors.Is(err, models.ErrInvalidFoodDraft):
		return apiError(c, fiber.StatusBadRequest, errorCategoryInvalidInput, err.Error())
	case errors.Is(err, estimation.ErrInvalidImage):
		return apiError(c, fiber.StatusUnprocessableEntity, errorCategoryInvalidInput, "invalid image")
	case errors.Is(err, estimation.ErrEstimationUnavailable):
		return apiError(c, fiber.StatusBadGateway, errorCategoryDependencyFailed, "estimation unavailable")
	case errors.Is(err, services.ErrUserNotFound):
		return apiError(c, fiber.StatusNotFound, errorCategoryNotFound, "user not found")
	case errors.Is(err, services.ErrFoodEntryNotFound):
		return apiError(c, fiber.StatusNotFound, errorCategoryNotFound, "food entry not found")
	case errors.Is(err, services.ErrDuplicateUser):
		return apiError(c, fiber.StatusConflict, errorCategoryConflict, "user was created concurrently, retry the request")
	default:
		log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
		return apiError(c, fiber.StatusInternalServerError, errorCategoryInternal, "internal error")
	}
}

// ErrorHandler renders framework errors (unknown routes, oversized bodies, panics
// caught by recover) in the same shape as handler errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
	}

	switch {
	case status == fiber.StatusNotFound:
		return apiError(c, status, errorCategoryNotFound, "route not found")
	case status >= fiber.StatusInternalServerError:
		log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
		return apiError(c, status, errorCategoryInternal, "internal error")
	default:
		return apiError(c, status, errorCategoryInvalidInput, strings.ToLower(err.Error()))
	}
}

func toEntryResponse(entry models.FoodEntry) entryResponse {
	return entryResponse{
		ID:            entry.ID,
		FoodName:      entry.FoodName,
		Description:   entry.Description,
		Calories:      entry.Calories,
		Protein:       entry.Protein,
		Fat:           entry.Fat,
		Carbohydrates: entry.Carbohydrates,
		CreationDate:  entry.CreationDate.UTC().Format("2006-01-02"),
		UserID:        entry.UserID,
		Source:        entry.Source,
		PhotoKey:      entry.PhotoKey,
	}
}

func toEntryResponses(entries []models.FoodEntry) []entryResponse {
	responses := make([]entryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toEntryResponse(entry))
	}
	return responses
}

func emailPathParam(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	unescaped, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return unescaped
}

func positiveIDParam(c *fiber.Ctx, key string) (uint, bool) {
	id, err := c.ParamsInt(key)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
