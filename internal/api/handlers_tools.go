package api

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/platelog/internal/models"
	"github.com/terraincognita07/platelog/internal/services"
)

const (
	toolLogFood      = "log_food"
	toolGetUserFoods = "get_user_foods"
	toolListFoods    = "list_foods"
)

var errInvalidToolArguments = errors.New("invalid tool arguments")

type logFoodParams struct {
	Email     string `json:"email"`
	EntryDate string `json:"entry_date,omitempty"`
	models.FoodDraftDocument
}

type getUserFoodsParams struct {
	Email     string `json:"email"`
	EntryDate string `json:"entry_date,omitempty"`
}

// CallTool answers an MCP tools/call request so assistants can log and read meals.
func (handler *Handler) CallTool(c *fiber.Ctx) error {
	var request protocol.CallToolRequest
	if err := json.Unmarshal(c.Body(), &request); err != nil {
		return apiError(c, fiber.StatusBadRequest, errorCategoryInvalidInput, "invalid tool request")
	}

	var payload any
	var err error
	switch request.Name {
	case toolLogFood:
		payload, err = handler.toolLogFood(c, &request)
	case toolGetUserFoods:
		payload, err = handler.toolGetUserFoods(c, &request)
	case toolListFoods:
		payload, err = handler.toolListFoods(c)
	default:
		return apiError(c, fiber.StatusNotFound, errorCategoryNotFound, fmt.Sprintf("unknown tool: %s", request.Name))
	}
	if err != nil {
		return serviceAPIError(c, err)
	}

	result, err := toolJSONResult(payload)
	if err != nil {
		return serviceAPIError(c, err)
	}
	return c.JSON(result)
}

func (handler *Handler) toolLogFood(c *fiber.Ctx, request *protocol.CallToolRequest) (any, error) {
	var params logFoodParams
	if err := extractToolParams(request, &params); err != nil {
		return nil, err
	}
	creationDate, err := services.ParseEntryDate(params.EntryDate)
	if err != nil {
		return nil, err
	}
	draft, err := params.FoodDraftDocument.Draft()
	if err != nil {
		return nil, err
	}

	entry, err := handler.ingestion.IngestDraft(c.UserContext(), params.Email, draft, creationDate)
	if err != nil {
		return nil, err
	}
	return toEntryResponse(entry), nil
}

func (handler *Handler) toolGetUserFoods(c *fiber.Ctx, request *protocol.CallToolRequest) (any, error) {
	var params getUserFoodsParams
	if err := extractToolParams(request, &params); err != nil {
		return nil, err
	}
	day, err := services.ParseEntryDate(params.EntryDate)
	if err != nil {
		return nil, err
	}

	entries, err := handler.queries.ListUserEntries(c.UserContext(), params.Email, day)
	if err != nil {
		return nil, err
	}
	return toEntryResponses(entries), nil
}

func (handler *Handler) toolListFoods(c *fiber.Ctx) (any, error) {
	entries, err := handler.queries.ListEntries(c.UserContext())
	if err != nil {
		return nil, err
	}
	return toEntryResponses(entries), nil
}

// extractToolParams round-trips the loosely typed arguments through JSON into target.
func extractToolParams(request *protocol.CallToolRequest, target any) error {
	raw, err := json.Marshal(request.Arguments)
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidToolArguments, err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: %v", errInvalidToolArguments, err)
	}
	return nil
}

func toolJSONResult(payload any) (*protocol.CallToolResult, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(raw),
			},
		},
	}, nil
}
