package usecase

import (
	"context"
	"errors"
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

const (
	SlugWarning      = " - такой slug уже существует, придумайте уникальное значение!"
	MsgSlugUnderived = "Не удалось получить slug из заголовка, укажите его вручную."
)

type NotesService struct {
	notes  NoteStore
	events services.EventPublisher
	log    *slog.Logger
	Now    func() time.Time
}

func NewNotesService(notes NoteStore, events services.EventPublisher, log *slog.Logger) *NotesService {
	if events == nil {
		events = services.NopPublisher{}
	}
	return &NotesService{
		notes:  notes,
		events: events,
		log:    log,
		Now:    time.Now,
	}
}

// Create stores a new note owned by id. An empty slug is derived from the
// title; a taken slug is a validation error on "slug".
func (s *NotesService) Create(ctx context.Context, id Identity, form dto.NoteForm) (*model.Note, error) {
	const op = "usecase.NotesService.Create"
	ctx, span := tracing.StartSpan(ctx, op, attribute.String("user_id", id.UserID))
	defer span.End()

	slug, err := s.resolveSlug(ctx, form, "")
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	now := s.Now()
	note := &model.Note{
		ID:        utils.NewID(),
		Title:     strings.TrimSpace(form.Title),
		Text:      form.Text,
		Slug:      slug,
		AuthorID:  id.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.notes.Create(ctx, note); err != nil {
		if errors.Is(err, model.ErrSlugExists) {
			return nil, NewValidationError("slug", slug+SlugWarning)
		}
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	utils.TrackNoteOperation("create")
	s.publish(ctx, services.EventNoteCreated, note)
	return note, nil
}

// List returns the requester's notes only.
func (s *NotesService) List(ctx context.Context, id Identity) ([]model.Note, error) {
	const op = "usecase.NotesService.List"
	ctx, span := tracing.StartSpan(ctx, op)
	defer span.End()

	notes, err := s.notes.ListByAuthor(ctx, id.UserID)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return notes, nil
}

// Get returns model.ErrNotFound for missing notes and for notes of other
// authors alike.
func (s *NotesService) Get(ctx context.Context, id Identity, slug string) (*model.Note, error) {
	const op = "usecase.NotesService.Get"

	note, err := s.notes.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !id.Owns(note.AuthorID) {
		return nil, fmt.Errorf("%s: %w", op, model.ErrNotFound)
	}
	return note, nil
}

func (s *NotesService) Update(ctx context.Context, id Identity, slug string, form dto.NoteForm) (*model.Note, error) {
	const op = "usecase.NotesService.Update"
	ctx, span := tracing.StartSpan(ctx, op, attribute.String("slug", slug))
	defer span.End()

	note, err := s.Get(ctx, id, slug)
	if err != nil {
		return nil, err
	}

	newSlug, err := s.resolveSlug(ctx, form, note.ID)
	if err != nil {
		return nil, err
	}

	note.Title = strings.TrimSpace(form.Title)
	note.Text = form.Text
	note.Slug = newSlug
	note.UpdatedAt = s.Now()

	if err := s.notes.Update(ctx, note); err != nil {
		if errors.Is(err, model.ErrSlugExists) {
			return nil, NewValidationError("slug", newSlug+SlugWarning)
		}
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	utils.TrackNoteOperation("update")
	s.publish(ctx, services.EventNoteUpdated, note)
	return note, nil
}

func (s *NotesService) Delete(ctx context.Context, id Identity, slug string) error {
	const op = "usecase.NotesService.Delete"
	ctx, span := tracing.StartSpan(ctx, op, attribute.String("slug", slug))
	defer span.End()

	note, err := s.Get(ctx, id, slug)
	if err != nil {
		return err
	}
	if err := s.notes.Delete(ctx, note.ID, id.UserID); err != nil {
		tracing.RecordError(span, err)
		return fmt.Errorf("%s: %w", op, err)
	}

	utils.TrackNoteOperation("delete")
	s.publish(ctx, services.EventNoteDeleted, note)
	return nil
}

// resolveSlug picks the submitted or derived slug and checks it is free.
// selfID is the note being edited; its own slug never collides.
func (s *NotesService) resolveSlug(ctx context.Context, form dto.NoteForm, selfID string) (string, error) {
	slug := strings.TrimSpace(form.Slug)
	if slug == "" {
		slug = utils.Slugify(form.Title, utils.SlugMaxLength)
	}
	if slug == "" {
		return "", NewValidationError("slug", MsgSlugUnderived)
	}

	existing, err := s.notes.GetBySlug(ctx, slug)
	switch {
	case errors.Is(err, model.ErrNotFound):
		return slug, nil
	case err != nil:
		return "", fmt.Errorf("usecase.NotesService.resolveSlug: %w", err)
	case existing.ID == selfID:
		return slug, nil
	default:
		return "", NewValidationError("slug", slug+SlugWarning)
	}
}

func (s *NotesService) publish(ctx context.Context, kind string, note *model.Note) {
	err := s.events.Publish(ctx, services.Event{
		Type:       kind,
		EntityID:   note.ID,
		AuthorID:   note.AuthorID,
		OccurredAt: s.Now(),
	})
	if err != nil {
		s.log.Warn("failed to publish event", slog.String("type", kind), utils.Err(err))
	}
}
