package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"yaapps/dto"
	"yaapps/model"
	"yaapps/services"
	"yaapps/tracing"
	"yaapps/utils"

	"go.opentelemetry.io/otel/attribute"
)

const DefaultPageSize = 10

type NewsService struct {
	news     NewsStore
	comments CommentStore
	events   services.EventPublisher
	log      *slog.Logger
	PageSize int
	Now      func() time.Time
}

func NewNewsService(news NewsStore, comments CommentStore, events services.EventPublisher, log *slog.Logger, pageSize int) *NewsService {
	if events == nil {
		events = services.NopPublisher{}
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &NewsService{
		news:     news,
		comments: comments,
		events:   events,
		log:      log,
		PageSize: pageSize,
		Now:      time.Now,
	}
}

// Home returns at most PageSize news, newest date first.
func (s *NewsService) Home(ctx context.Context) ([]model.News, error) {
	const op = "usecase.NewsService.Home"
	ctx, span := tracing.StartSpan(ctx, op)
	defer span.End()

	items, err := s.news.ListLatest(ctx, s.PageSize)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// Detail returns the news and its comments, oldest first.
func (s *NewsService) Detail(ctx context.Context, newsID string) (*model.News, []model.Comment, error) {
	const op = "usecase.NewsService.Detail"
	ctx, span := tracing.StartSpan(ctx, op, attribute.String("news_id", newsID))
	defer span.End()

	news, err := s.news.GetByID(ctx, newsID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	comments, err := s.comments.ListByNews(ctx, newsID)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return news, comments, nil
}

// CreateNews is the administrative path used by fixtures.
func (s *NewsService) CreateNews(ctx context.Context, title, text string, date time.Time) (*model.News, error) {
	const op = "usecase.NewsService.CreateNews"

	now := s.Now()
	if date.IsZero() {
		date = now
	}
	news := &model.News{
		ID:        utils.NewID(),
		Title:     title,
		Text:      text,
		Date:      date,
		CreatedAt: now,
	}
	if err := s.news.Create(ctx, news); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.publish(ctx, services.EventNewsCreated, news.ID, "")
	return news, nil
}

func (s *NewsService) AddComment(ctx context.Context, id Identity, newsID string, form dto.CommentForm) (*model.Comment, error) {
	const op = "usecase.NewsService.AddComment"
	ctx, span := tracing.StartSpan(ctx, op, attribute.String("news_id", newsID))
	defer span.End()

	if _, err := s.news.GetByID(ctx, newsID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := moderate(form.Text); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ID:         utils.NewID(),
		NewsID:     newsID,
		AuthorID:   id.UserID,
		AuthorName: id.Username,
		Text:       form.Text,
		Created:    s.Now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	utils.TrackCommentOperation("create")
	s.publish(ctx, services.EventCommentCreated, comment.ID, comment.AuthorID)
	return comment, nil
}

// GetComment returns the comment only to its author.
func (s *NewsService) GetComment(ctx context.Context, id Identity, commentID string) (*model.Comment, error) {
	const op = "usecase.NewsService.GetComment"

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !id.Owns(comment.AuthorID) {
		return nil, fmt.Errorf("%s: %w", op, model.ErrNotFound)
	}
	return comment, nil
}

func (s *NewsService) UpdateComment(ctx context.Context, id Identity, commentID string, form dto.CommentForm) (*model.Comment, error) {
	const op = "usecase.NewsService.UpdateComment"
	ctx, span := tracing.StartSpan(ctx, op, attribute.String("comment_id", commentID))
	defer span.End()

	comment, err := s.GetComment(ctx, id, commentID)
	if err != nil {
		return nil, err
	}
	if err := moderate(form.Text); err != nil {
		return nil, err
	}

	comment.Text = form.Text
	if err := s.comments.Update(ctx, comment); err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	utils.TrackCommentOperation("update")
	s.publish(ctx, services.EventCommentUpdated, comment.ID, comment.AuthorID)
	return comment, nil
}

// DeleteComment returns the removed comment so callers can redirect to its
// news page.
func (s *NewsService) DeleteComment(ctx context.Context, id Identity, commentID string) (*model.Comment, error) {
	const op = "usecase.NewsService.DeleteComment"
	ctx, span := tracing.StartSpan(ctx, op, attribute.String("comment_id", commentID))
	defer span.End()

	comment, err := s.GetComment(ctx, id, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.comments.Delete(ctx, comment.ID, id.UserID); err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	utils.TrackCommentOperation("delete")
	s.publish(ctx, services.EventCommentDeleted, comment.ID, comment.AuthorID)
	return comment, nil
}

func moderate(text string) error {
	if ContainsBadWords(text) {
		utils.TrackCommentOperation("rejected")
		return NewValidationError("text", ModerationWarning)
	}
	if strings.TrimSpace(text) == "" {
		return NewValidationError("text", utils.MsgRequired)
	}
	return nil
}

func (s *NewsService) publish(ctx context.Context, kind, entityID, authorID string) {
	err := s.events.Publish(ctx, services.Event{
		Type:       kind,
		EntityID:   entityID,
		AuthorID:   authorID,
		OccurredAt: s.Now(),
	})
	if err != nil {
		s.log.Warn("failed to publish event", slog.String("type", kind), utils.Err(err))
	}
}
