package api

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type toolResultPayload struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func itoa(value uint) string {
	return strconv.FormatUint(uint64(value), 10)
}

func decodeToolText[T any](t *testing.T, result toolResultPayload) T {
	t.Helper()

	if len(result.Content) != 1 || result.Content[0].Type != "text" {
		t.Fatalf("expected a single text content item, got %+v", result.Content)
	}
	var payload T
	if err := json.Unmarshal([]byte(result.Content[0].Text), &payload); err != nil {
		t.Fatalf("decode tool text: %v", err)
	}
	return payload
}

func TestCallToolLogsAndReadsFood(t *testing.T) {
	app, _ := newFoodTestApp(t, nil)

	logResponse := postJSON(t, app, "/mcp/tools/call", `{"name":"log_food","arguments":{"email":"tool@example.com","entry_date":"2026-04-02","food_name":"Yogurt","calories":150,"protein":9,"fat":4,"carbohydrates":18}}`)
	assertStatus(t, logResponse, fiber.StatusOK)
	logged := decodeToolText[entryResponse](t, readJSON[toolResultPayload](t, logResponse.Body))
	if logged.FoodName != "Yogurt" || logged.CreationDate != "2026-04-02" || logged.ID == 0 {
		t.Fatalf("unexpected logged entry: %+v", logged)
	}

	readResponse := postJSON(t, app, "/mcp/tools/call", `{"name":"get_user_foods","arguments":{"email":"tool@example.com","entry_date":"2026-04-02"}}`)
	assertStatus(t, readResponse, fiber.StatusOK)
	entries := decodeToolText[[]entryResponse](t, readJSON[toolResultPayload](t, readResponse.Body))
	if len(entries) != 1 || entries[0].ID != logged.ID {
		t.Fatalf("expected the logged entry back, got %+v", entries)
	}

	listResponse := postJSON(t, app, "/mcp/tools/call", `{"name":"list_foods","arguments":{}}`)
	assertStatus(t, listResponse, fiber.StatusOK)
	all := decodeToolText[[]entryResponse](t, readJSON[toolResultPayload](t, listResponse.Body))
	if len(all) != 1 {
		t.Fatalf("expected one entry overall, got %d", len(all))
	}
}

func TestCallToolRejectsBadRequests(t *testing.T) {
	app, _ := newFoodTestApp(t, nil)

	response := postJSON(t, app, "/mcp/tools/call", `{"name":"drop_tables","arguments":{}}`)
	assertStatus(t, response, fiber.StatusNotFound)

	response = postJSON(t, app, "/mcp/tools/call", `not json`)
	assertStatus(t, response, fiber.StatusBadRequest)

	response = postJSON(t, app, "/mcp/tools/call", `{"name":"log_food","arguments":{"email":"tool@example.com","food_name":"Yogurt","calories":150}}`)
	assertStatus(t, response, fiber.StatusBadRequest)
	if payload := readAPIError(t, response.Body); payload.Category != errorCategoryInvalidInput {
		t.Fatalf("expected invalid_input, got %+v", payload)
	}

	response = postJSON(t, app, "/mcp/tools/call", `{"name":"get_user_foods","arguments":{"email":"ghost@example.com"}}`)
	assertStatus(t, response, fiber.StatusNotFound)
}
