package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/jomacs/bookly/internal/events"
	"github.com/jomacs/bookly/internal/logging"
	"github.com/jomacs/bookly/internal/models"
	"github.com/jomacs/bookly/internal/repo"
)

type BookService struct {
	Books    *repo.BookRepo
	Producer *events.Producer
}

type BookInput struct {
	Title         string
	Author        string
	Publisher     string
	PublishedDate string
	PageCount     int
	Language      string
}

type BookUpdate struct {
	Title         *string
	Author        *string
	Publisher     *string
	PublishedDate *string
	PageCount     *int
	Language      *string
}

func (s *BookService) List(ctx context.Context) ([]models.Book, error) {
	return s.Books.List(ctx)
}

func (s *BookService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Book, error) {
	return s.Books.ListByUser(ctx, userID)
}

func (s *BookService) Get(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	return s.Books.GetByID(ctx, id)
}

func (s *BookService) Create(ctx context.Context, in BookInput, ownerID uuid.UUID) (*models.Book, error) {
	book := &models.Book{
		Title:         in.Title,
		Author:        in.Author,
		Publisher:     in.Publisher,
		PublishedDate: in.PublishedDate,
		PageCount:     in.PageCount,
		Language:      in.Language,
		UserID:        &ownerID,
	}
	if err := s.Books.Create(ctx, book); err != nil {
		return nil, err
	}

	if err := s.Producer.PublishEvent(ctx, book.ID.String(), map[string]any{
		"type":    "book_created",
		"book_id": book.ID.String(),
		"user_id": ownerID.String(),
	}); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "error", err)
	}

	return book, nil
}

func (s *BookService) Update(ctx context.Context, id uuid.UUID, upd BookUpdate) (*models.Book, error) {
	book, err := s.Books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		book.Title = *upd.Title
	}
	if upd.Author != nil {
		book.Author = *upd.Author
	}
	if upd.Publisher != nil {
		book.Publisher = *upd.Publisher
	}
	if upd.PublishedDate != nil {
		book.PublishedDate = *upd.PublishedDate
	}
	if upd.PageCount != nil {
		book.PageCount = *upd.PageCount
	}
	if upd.Language != nil {
		book.Language = *upd.Language
	}

	if err := s.Books.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *BookService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.Books.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.Producer.PublishEvent(ctx, id.String(), map[string]any{
		"type":    "book_deleted",
		"book_id": id.String(),
	}); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "error", err)
	}
	return nil
}
