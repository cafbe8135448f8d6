package api

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/platelog/internal/models"
	"github.com/terraincognita07/platelog/internal/services"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	if err := handler.health.Ping(c.UserContext()); err != nil {
		return apiError(c, fiber.StatusServiceUnavailable, errorCategoryDependencyFailed, "database unavailable")
	}
	return c.JSON(statusResponse{Status: "ok", Message: "API is running!"})
}

func (handler *Handler) AddFood(c *fiber.Ctx) error {
	creationDate, err := services.ParseEntryDate(c.Query("entry_date"))
	if err != nil {
		return serviceAPIError(c, err)
	}
	draft, err := models.ParseFoodDraft(c.Body())
	if err != nil {
		return serviceAPIError(c, err)
	}

	entry, err := handler.ingestion.IngestDraft(c.UserContext(), c.Query("email"), draft, creationDate)
	if err != nil {
		return serviceAPIError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toEntryResponse(entry))
}

func (handler *Handler) AddFoodImage(c *fiber.Ctx) error {
	creationDate, err := services.ParseEntryDate(c.Query("entry_date"))
	if err != nil {
		return serviceAPIError(c, err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, errorCategoryInvalidInput, "file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, errorCategoryInvalidInput, "file is unreadable")
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, errorCategoryInvalidInput, "file is unreadable")
	}

	entry, err := handler.ingestion.IngestImage(c.UserContext(), c.Query("email"), image, creationDate)
	if err != nil {
		return serviceAPIError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toEntryResponse(entry))
}

func (handler *Handler) DeleteFood(c *fiber.Ctx) error {
	entryID, ok := positiveIDParam(c, "food_id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, errorCategoryInvalidInput, "invalid food id")
	}

	if err := handler.entries.DeleteEntry(c.UserContext(), entryID); err != nil {
		return serviceAPIError(c, err)
	}
	return c.JSON(statusResponse{Status: "ok", Message: fmt.Sprintf("Deleted entry %d", entryID)})
}

func (handler *Handler) GetFood(c *fiber.Ctx) error {
	entryID, ok := positiveIDParam(c, "food_id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, errorCategoryInvalidInput, "invalid food id")
	}

	entry, err := handler.queries.FindEntry(c.UserContext(), entryID)
	if err != nil {
		return serviceAPIError(c, err)
	}
	return c.JSON(toEntryResponse(entry))
}

func (handler *Handler) ListFoods(c *fiber.Ctx) error {
	entries, err := handler.queries.ListEntries(c.UserContext())
	if err != nil {
		return serviceAPIError(c, err)
	}
	return c.JSON(toEntryResponses(entries))
}

func (handler *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := handler.queries.ListUsers(c.UserContext())
	if err != nil {
		return serviceAPIError(c, err)
	}
	return c.JSON(users)
}

// UserFoods serves both /user-foods/:email and /user-foods?email=.
func (handler *Handler) UserFoods(c *fiber.Ctx) error {
	email := c.Query("email")
	if c.Params("email") != "" {
		email = emailPathParam(c, "email")
	}

	day, err := services.ParseEntryDate(c.Query("entry_date"))
	if err != nil {
		return serviceAPIError(c, err)
	}

	entries, err := handler.queries.ListUserEntries(c.UserContext(), email, day)
	if err != nil {
		return serviceAPIError(c, err)
	}
	return c.JSON(toEntryResponses(entries))
}
