package usecase

import (
	"context"

	"yaapps/model"
)

// Stores report model.ErrNotFound for absent entities. Update and Delete
// filter on the author as well, so a foreign entity is also ErrNotFound.

type NoteStore interface {
	Create(ctx context.Context, note *model.Note) error
	GetBySlug(ctx context.Context, slug string) (*model.Note, error)
	ListByAuthor(ctx context.Context, authorID string) ([]model.Note, error)
	Update(ctx context.Context, note *model.Note) error
	Delete(ctx context.Context, id, authorID string) error
}

type NewsStore interface {
	Create(ctx context.Context, news *model.News) error
	GetByID(ctx context.Context, id string) (*model.News, error)
	ListLatest(ctx context.Context, limit int) ([]model.News, error)
}

type CommentStore interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	ListByNews(ctx context.Context, newsID string) ([]model.Comment, error)
	Update(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, id, authorID string) error
}

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, userID string) (*model.User, error)
}
