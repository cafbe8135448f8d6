package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/terraincognita07/platelog/internal/estimation"
	"github.com/terraincognita07/platelog/internal/models"
)

var (
	ErrInvalidDraft       = models.ErrInvalidFoodDraft
	ErrDuplicateUser      = errors.New("duplicate user")
	ErrPersistEntryFailed = errors.New("persist food entry failed")
)

type Estimator interface {
	Estimate(ctx context.Context, image []byte) (models.FoodDraft, error)
}

type PhotoArchive interface {
	Store(ctx context.Context, image []byte, contentType string, day time.Time, extension string) (string, error)
}

// EntryWriter stores an entry for the user with this email, creating the user when
// absent, as one atomic unit.
type EntryWriter interface {
	CreateEntryForEmail(ctx context.Context, email string, entry *models.FoodEntry) error
}

type IngestionService struct {
	entries   EntryWriter
	estimator Estimator
	archive   PhotoArchive
	location  *time.Location
	now       func() time.Time
}

// NewIngestionService wires the ingestion flow. archive may be nil.
func NewIngestionService(entries EntryWriter, estimator Estimator, archive PhotoArchive, location *time.Location) *IngestionService {
	if location == nil {
		location = time.UTC
	}
	return &IngestionService{
		entries:   entries,
		estimator: estimator,
		archive:   archive,
		location:  location,
		now:       time.Now,
	}
}

func (service *IngestionService) IngestDraft(ctx context.Context, email string, draft models.FoodDraft, creationDate *time.Time) (models.FoodEntry, error) {
	normalizedEmail, err := NormalizeEntryEmail(email)
	if err != nil {
		return models.FoodEntry{}, err
	}
	normalizedDraft, err := draft.Normalized()
	if err != nil {
		return models.FoodEntry{}, err
	}

	entry := newFoodEntry(normalizedDraft, storedDay(creationDate, service.now(), service.location), models.SourceManual)
	return service.persist(ctx, normalizedEmail, entry)
}

// IngestImage estimates the draft before any storage work starts. Estimation errors
// are returned unchanged and leave nothing behind.
func (service *IngestionService) IngestImage(ctx context.Context, email string, image []byte, creationDate *time.Time) (models.FoodEntry, error) {
	normalizedEmail, err := NormalizeEntryEmail(email)
	if err != nil {
		return models.FoodEntry{}, err
	}

	draft, err := service.estimator.Estimate(ctx, image)
	if err != nil {
		log.Printf("estimate meal image for %s: %v", normalizedEmail, err)
		return models.FoodEntry{}, err
	}
	normalizedDraft, err := draft.Normalized()
	if err != nil {
		return models.FoodEntry{}, fmt.Errorf("%w: %v", estimation.ErrEstimationUnavailable, err)
	}

	day := storedDay(creationDate, service.now(), service.location)
	entry := newFoodEntry(normalizedDraft, day, models.SourceImage)
	if key, ok := service.archivePhoto(ctx, normalizedEmail, image, day); ok {
		entry.PhotoKey = &key
	}
	return service.persist(ctx, normalizedEmail, entry)
}

func (service *IngestionService) archivePhoto(ctx context.Context, email string, image []byte, day time.Time) (string, bool) {
	if service.archive == nil {
		return "", false
	}

	contentType, err := estimation.DetectImageType(image)
	if err != nil {
		log.Printf("archive meal photo for %s: %v", email, err)
		return "", false
	}
	key, err := service.archive.Store(ctx, image, contentType, day, estimation.FileExtension(contentType))
	if err != nil {
		log.Printf("archive meal photo for %s: %v", email, err)
		return "", false
	}
	return key, true
}

// persist retries once when a concurrent request created the same user between the
// lookup and the insert. The retried lookup then sees the committed row.
func (service *IngestionService) persist(ctx context.Context, email string, entry models.FoodEntry) (models.FoodEntry, error) {
	for attempt := 1; ; attempt++ {
		stored := entry
		err := service.entries.CreateEntryForEmail(ctx, email, &stored)
		if err == nil {
			return stored, nil
		}

		if errors.Is(err, models.ErrEmailTaken) {
			if attempt < 2 {
				continue
			}
			return models.FoodEntry{}, fmt.Errorf("%w: %v", ErrDuplicateUser, err)
		}
		return models.FoodEntry{}, fmt.Errorf("%w: %v", ErrPersistEntryFailed, err)
	}
}

func newFoodEntry(draft models.FoodDraft, day time.Time, source string) models.FoodEntry {
	return models.FoodEntry{
		FoodName:      draft.FoodName,
		Description:   draft.Description,
		Calories:      draft.Calories,
		Protein:       draft.Protein,
		Fat:           draft.Fat,
		Carbohydrates: draft.Carbohydrates,
		CreationDate:  day,
		Source:        source,
	}
}
