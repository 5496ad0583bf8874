package usecases

import (
	"context"
	"fmt"

	"github.com/adelinebrd/chasse/internal/core/domain"
	"github.com/adelinebrd/chasse/internal/core/ports"
)

// QuizService handles quiz business logic.
type QuizService struct {
	quizzes ports.QuizRepository
}

// NewQuizService creates a new QuizService.
func NewQuizService(quizzes ports.QuizRepository) *QuizService {
	return &QuizService{quizzes: quizzes}
}

// Create validates and persists a quiz.
func (s *QuizService) Create(ctx context.Context, quiz *domain.Quiz) (*domain.Quiz, error) {
	if err := validateQuiz(quiz); err != nil {
		return nil, err
	}
	if err := s.quizzes.Create(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// Update validates and persists quiz changes.
func (s *QuizService) Update(ctx context.Context, quiz *domain.Quiz) (*domain.Quiz, error) {
	if err := validateQuiz(quiz); err != nil {
		return nil, err
	}
	if err := s.quizzes.Update(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// Delete removes a quiz.
func (s *QuizService) Delete(ctx context.Context, id string) error {
	return s.quizzes.Delete(ctx, id)
}

// GetByID returns a quiz.
func (s *QuizService) GetByID(ctx context.Context, id string) (*domain.Quiz, error) {
	return s.quizzes.GetByID(ctx, id)
}

// ListByPOI returns the quizzes attached to a POI.
func (s *QuizService) ListByPOI(ctx context.Context, poiID string) ([]domain.Quiz, error) {
	return s.quizzes.ListByPOI(ctx, poiID)
}

func validateQuiz(quiz *domain.Quiz) error {
	if quiz.POIID == "" {
		return fmt.Errorf("quiz poi_id is required")
	}
	if quiz.Question == "" {
		return fmt.Errorf("quiz question is required")
	}
	if len(quiz.Choices) < 2 {
		return fmt.Errorf("quiz needs at least 2 choices, got %d", len(quiz.Choices))
	}
	if quiz.Answer < 0 || quiz.Answer >= len(quiz.Choices) {
		return fmt.Errorf("quiz answer index %d out of range", quiz.Answer)
	}
	return nil
}

// HuntService handles treasure-hunt business logic.
type HuntService struct {
	hunts ports.HuntRepository
}

// NewHuntService creates a new HuntService.
func NewHuntService(hunts ports.HuntRepository) *HuntService {
	return &HuntService{hunts: hunts}
}

// Create validates and persists a hunt.
func (s *HuntService) Create(ctx context.Context, hunt *domain.Hunt) (*domain.Hunt, error) {
	if hunt.TrailID == "" {
		return nil, fmt.Errorf("hunt trail_id is required")
	}
	if hunt.Name == "" {
		return nil, fmt.Errorf("hunt name is required")
	}
	if hunt.StartsAt != nil && hunt.EndsAt != nil && hunt.EndsAt.Before(*hunt.StartsAt) {
		return nil, fmt.Errorf("hunt ends before it starts")
	}
	if err := s.hunts.Create(ctx, hunt); err != nil {
		return nil, err
	}
	return hunt, nil
}

// Update persists hunt changes.
func (s *HuntService) Update(ctx context.Context, hunt *domain.Hunt) (*domain.Hunt, error) {
	if err := s.hunts.Update(ctx, hunt); err != nil {
		return nil, err
	}
	return hunt, nil
}

// Delete removes a hunt.
func (s *HuntService) Delete(ctx context.Context, id string) error {
	return s.hunts.Delete(ctx, id)
}

// GetByID returns a hunt.
func (s *HuntService) GetByID(ctx context.Context, id string) (*domain.Hunt, error) {
	return s.hunts.GetByID(ctx, id)
}

// ListByTrail returns the hunts attached to a trail.
func (s *HuntService) ListByTrail(ctx context.Context, trailID string) ([]domain.Hunt, error) {
	return s.hunts.ListByTrail(ctx, trailID)
}

// ListActive returns currently running hunts.
func (s *HuntService) ListActive(ctx context.Context) ([]domain.Hunt, error) {
	return s.hunts.ListActive(ctx)
}

// BadgeService handles badge business logic.
type BadgeService struct {
	badges ports.BadgeRepository
}

// NewBadgeService creates a new BadgeService.
func NewBadgeService(badges ports.BadgeRepository) *BadgeService {
	return &BadgeService{badges: badges}
}

// Create validates and persists a badge.
func (s *BadgeService) Create(ctx context.Context, badge *domain.Badge) (*domain.Badge, error) {
	if badge.Name == "" {
		return nil, fmt.Errorf("badge name is required")
	}
	if badge.Slug == "" {
		badge.Slug = slugify(badge.Name)
	}
	if err := s.badges.Create(ctx, badge); err != nil {
		return nil, err
	}
	return badge, nil
}

// Delete removes a badge.
func (s *BadgeService) Delete(ctx context.Context, id string) error {
	return s.badges.Delete(ctx, id)
}

// GetBySlug returns a badge by slug.
func (s *BadgeService) GetBySlug(ctx context.Context, slug string) (*domain.Badge, error) {
	return s.badges.GetBySlug(ctx, slug)
}

// List returns all badges.
func (s *BadgeService) List(ctx context.Context) ([]domain.Badge, error) {
	return s.badges.List(ctx)
}
