package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/jomacs/bookly/internal/events"
	"github.com/jomacs/bookly/internal/logging"
	"github.com/jomacs/bookly/internal/models"
	"github.com/jomacs/bookly/internal/repo"
)

type ReviewService struct {
	Reviews  *repo.ReviewRepo
	Books    *repo.BookRepo
	Users    *repo.UserRepo
	Producer *events.Producer
}

type ReviewInput struct {
	Rating     int
	ReviewText string
}

// AddToBook attaches a review to a book. Both the book and the reviewing
// user must still exist; their repo not-found errors propagate.
func (s *ReviewService) AddToBook(ctx context.Context, bookID uuid.UUID, userEmail string, in ReviewInput) (*models.Review, error) {
	book, err := s.Books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	user, err := s.Users.GetByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		Rating:     in.Rating,
		ReviewText: in.ReviewText,
		UserID:     user.ID,
		BookID:     book.ID,
	}
	if err := s.Reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	if err := s.Producer.PublishEvent(ctx, review.ID.String(), map[string]any{
		"type":      "review_created",
		"review_id": review.ID.String(),
		"book_id":   book.ID.String(),
		"user_id":   user.ID.String(),
	}); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "error", err)
	}

	return review, nil
}

func (s *ReviewService) ListByBook(ctx context.Context, bookID uuid.UUID) ([]models.Review, error) {
	return s.Reviews.ListByBook(ctx, bookID)
}

func (s *ReviewService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.Reviews.Delete(ctx, id)
}
