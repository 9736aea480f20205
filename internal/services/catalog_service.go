package services

import (
	"context"

	"github.com/vytor/linguaflash/internal/catalog"
	"github.com/vytor/linguaflash/internal/errors"
	"github.com/vytor/linguaflash/internal/logger"
	"github.com/vytor/linguaflash/internal/models"
	"github.com/vytor/linguaflash/internal/practice"
	"github.com/vytor/linguaflash/internal/progress"
)

// CatalogService exposes the read-only lesson content
type CatalogService interface {
	ListUnits(ctx context.Context) []models.Unit
	GetUnit(ctx context.Context, unitID string) (*models.Unit, error)
	NextLesson(ctx context.Context, unitID, lessonID string) (*models.Lesson, error)
	ScorePractice(ctx context.Context, unitID, lessonID, transcript string) (*practice.Result, error)
}

type catalogService struct {
	catalog *catalog.Catalog
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(cat *catalog.Catalog) CatalogService {
	return &catalogService{catalog: cat}
}

func (s *catalogService) ListUnits(ctx context.Context) []models.Unit {
	logger.FromContext(ctx).Debug("listing units")
	return s.catalog.Units()
}

func (s *catalogService) GetUnit(ctx context.Context, unitID string) (*models.Unit, error) {
	logger.FromContext(ctx).Debug("getting unit: unit=%s", unitID)

	u, ok := s.catalog.Unit(unitID)
	if !ok {
		return nil, errors.NewNotFoundError("unit", unitID)
	}
	return &u, nil
}

// NextLesson returns the lesson after lessonID, or nil when lessonID is the last one.
func (s *catalogService) NextLesson(ctx context.Context, unitID, lessonID string) (*models.Lesson, error) {
	logger.FromContext(ctx).Debug("getting next lesson: unit=%s, lesson=%s", unitID, lessonID)

	if _, ok := s.catalog.Lesson(unitID, lessonID); !ok {
		return nil, errors.NewNotFoundError("lesson", lessonID)
	}
	return progress.NextLesson(s.catalog, unitID, lessonID), nil
}

// ScorePractice compares a transcript with the lesson's target phrase.
func (s *catalogService) ScorePractice(ctx context.Context, unitID, lessonID, transcript string) (*practice.Result, error) {
	log := logger.FromContext(ctx)
	log.Debug("scoring practice: unit=%s, lesson=%s", unitID, lessonID)

	lesson, ok := s.catalog.Lesson(unitID, lessonID)
	if !ok {
		return nil, errors.NewNotFoundError("lesson", lessonID)
	}
	if lesson.Phrase.Text == "" {
		return nil, errors.NewValidationError("lesson", "has no practice phrase")
	}

	res := practice.Score(lesson.Phrase.Text, transcript)
	log.Debug("practice scored: accuracy=%d, passed=%t", res.Accuracy, res.Passed)
	return &res, nil
}
