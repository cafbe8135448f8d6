package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/platelog/internal/db"
	"github.com/terraincognita07/platelog/internal/models"
	"gorm.io/gorm"
)

type stubEstimator struct {
	draft models.FoodDraft
	err   error
	calls int
}

func (stub *stubEstimator) Estimate(context.Context, []byte) (models.FoodDraft, error) {
	stub.calls++
	return stub.draft, stub.err
}

func newFoodTestApp(t *testing.T, estimator *stubEstimator) (*fiber.App, *gorm.DB) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "platelog-api-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if estimator == nil {
		estimator = &stubEstimator{}
	}
	handler, err := NewHandler(database, estimator, nil, nil)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := NewApp(handler, AppOptions{
		CORSOrigins:    []string{"http://localhost:5173"},
		MaxUploadBytes: 1 << 20,
	})
	return app, database
}

func sendTestRequest(t *testing.T, app *fiber.App, request *http.Request) *http.Response {
	t.Helper()

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.Method, request.URL, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func postJSON(t *testing.T, app *fiber.App, target string, body string) *http.Response {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
	request.Header.Set("Content-Type", "application/json")
	return sendTestRequest(t, app, request)
}

func getPath(t *testing.T, app *fiber.App, target string) *http.Response {
	t.Helper()
	return sendTestRequest(t, app, httptest.NewRequest(http.MethodGet, target, nil))
}

func postImage(t *testing.T, app *fiber.App, target string, field string, content []byte) *http.Response {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if field != "" {
		part, err := writer.CreateFormFile(field, "meal.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	} else if err := writer.WriteField("note", "no file"); err != nil {
		t.Fatalf("write form field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	request := httptest.NewRequest(http.MethodPost, target, &body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	return sendTestRequest(t, app, request)
}

func testPNG(t *testing.T) []byte {
	t.Helper()

	var buffer bytes.Buffer
	if err := png.Encode(&buffer, image.NewGray(image.Rect(0, 0, 3, 3))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buffer.Bytes()
}

type apiErrorPayload struct {
	Error    string `json:"error"`
	Category string `json:"category"`
}

func readAPIError(t *testing.T, body io.Reader) apiErrorPayload {
	t.Helper()

	payload := apiErrorPayload{}
	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("decode response body %q: %v", string(raw), err)
	}
	return payload
}

func readJSON[T any](t *testing.T, body io.Reader) T {
	t.Helper()

	var payload T
	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("decode response body %q: %v", string(raw), err)
	}
	return payload
}

func assertStatus(t *testing.T, response *http.Response, expected int) {
	t.Helper()

	if response.StatusCode != expected {
		raw, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status %d, got %d: %s", expected, response.StatusCode, string(raw))
	}
}

const toastDraftJSON = `{"food_name":"Toast","description":"Two slices with butter.","calories":210,"protein":6,"fat":9,"carbohydrates":26}`
