package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/terraincognita07/platelog/internal/config"
	"github.com/terraincognita07/platelog/internal/db"
	"github.com/terraincognita07/platelog/internal/estimation"
	"github.com/terraincognita07/platelog/internal/models"
)

type stubEstimator struct {
	draft models.FoodDraft
	err   error
	image []byte
}

func (stub *stubEstimator) Estimate(_ context.Context, image []byte) (models.FoodDraft, error) {
	stub.image = image
	return stub.draft, stub.err
}

// isolateCLIEnv keeps the developer's environment and working directory out of config loading.
func isolateCLIEnv(t *testing.T) string {
	t.Helper()

	for _, key := range []string{
		"PLATELOG_CONFIG", "DB_DRIVER", "DB_PATH", "DB_HOST", "DB_NAME",
		"GOOGLE_API_KEY", "PHOTO_BUCKET", "ESTIMATION_TIMEOUT", "MAX_UPLOAD_BYTES",
	} {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}

	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := NewRootCommand()

	for _, name := range []string{"serve", "migrate", "estimate", "version"} {
		command, _, err := root.Find([]string{name})
		if err != nil {
			t.Fatalf("find %s: %v", name, err)
		}
		if command.Name() != name {
			t.Fatalf("expected command %q, got %q", name, command.Name())
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Fatal("expected persistent --config flag")
	}
}

func TestVersionCommandPrintsVersion(t *testing.T) {
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "platelog "+Version) {
		t.Fatalf("unexpected version output %q", out.String())
	}
}

func TestMigrateCommandCreatesSchema(t *testing.T) {
	dir := isolateCLIEnv(t)
	databasePath := filepath.Join(dir, "migrate.db")
	t.Setenv("DB_PATH", databasePath)

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"migrate"})

	if err := root.Execute(); err != nil {
		t.Fatalf("migrate command failed: %v", err)
	}
	if !strings.Contains(out.String(), "sqlite "+databasePath) || !strings.Contains(out.String(), "0 users") {
		t.Fatalf("unexpected migrate output %q", out.String())
	}

	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	for _, table := range []string{"users", "food_entries", "schema_migrations"} {
		if !database.Migrator().HasTable(table) {
			t.Fatalf("expected table %s after migrate", table)
		}
	}
}

func TestMigrateCommandReportsConfigErrors(t *testing.T) {
	isolateCLIEnv(t)
	t.Setenv("DB_DRIVER", "mysql")

	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"migrate"})

	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "config load failed") {
		t.Fatalf("expected config load error, got %v", err)
	}
}

func TestEstimateCommandRequiresAPIKey(t *testing.T) {
	isolateCLIEnv(t)

	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"estimate", "meal.png"})

	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "GOOGLE_API_KEY is required") {
		t.Fatalf("expected missing api key error, got %v", err)
	}
}

func TestRunEstimatePrintsDraft(t *testing.T) {
	imagePath := filepath.Join(t.TempDir(), "meal.png")
	if err := os.WriteFile(imagePath, []byte("image-bytes"), 0o600); err != nil {
		t.Fatalf("write image: %v", err)
	}

	description := "Bowl of oats with berries."
	estimator := &stubEstimator{draft: models.FoodDraft{
		FoodName:      "Oatmeal",
		Description:   &description,
		Calories:      310,
		Protein:       11,
		Fat:           6,
		Carbohydrates: 52,
	}}

	var out bytes.Buffer
	if err := runEstimate(context.Background(), estimator, imagePath, &out); err != nil {
		t.Fatalf("runEstimate() unexpected error: %v", err)
	}
	if string(estimator.image) != "image-bytes" {
		t.Fatalf("expected file contents to reach the estimator, got %q", estimator.image)
	}

	var printed models.FoodDraft
	if err := json.Unmarshal(out.Bytes(), &printed); err != nil {
		t.Fatalf("decode output %q: %v", out.String(), err)
	}
	if printed.FoodName != "Oatmeal" || printed.Calories != 310 || printed.Carbohydrates != 52 {
		t.Fatalf("unexpected printed draft: %+v", printed)
	}
}

func TestRunEstimateSurfacesFailures(t *testing.T) {
	err := runEstimate(context.Background(), &stubEstimator{}, filepath.Join(t.TempDir(), "missing.png"), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "read image") {
		t.Fatalf("expected read error, got %v", err)
	}

	imagePath := filepath.Join(t.TempDir(), "meal.png")
	if err := os.WriteFile(imagePath, []byte("x"), 0o600); err != nil {
		t.Fatalf("write image: %v", err)
	}
	err = runEstimate(context.Background(), &stubEstimator{err: estimation.ErrInvalidImage}, imagePath, &bytes.Buffer{})
	if !errors.Is(err, estimation.ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got %v", err)
	}
}

func TestNewEstimatorFallsBackToDisabled(t *testing.T) {
	cfg := config.Default()

	estimator, err := newEstimator(context.Background(), cfg)
	if err != nil {
		t.Fatalf("newEstimator() unexpected error: %v", err)
	}
	if _, ok := estimator.(estimation.Disabled); !ok {
		t.Fatalf("expected disabled estimator, got %T", estimator)
	}
}

func TestNewPhotoArchiveIsOffWithoutBucket(t *testing.T) {
	archive, err := newPhotoArchive(context.Background(), config.Default())
	if err != nil {
		t.Fatalf("newPhotoArchive() unexpected error: %v", err)
	}
	if archive != nil {
		t.Fatalf("expected no archive, got %T", archive)
	}
}

func TestOpenDatabaseRejectsUnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Driver = "oracle"

	if _, err := openDatabase(cfg); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}
