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
	"yaapps/utils"
)

const MsgUserExists = "Пользователь с таким именем уже существует."

type UserService struct {
	users  UserStore
	events services.EventPublisher
	log    *slog.Logger
	Now    func() time.Time
}

func NewUserService(users UserStore, events services.EventPublisher, log *slog.Logger) *UserService {
	if events == nil {
		events = services.NopPublisher{}
	}
	return &UserService{users: users, events: events, log: log, Now: time.Now}
}

func (s *UserService) Register(ctx context.Context, form dto.SignupForm) (*model.User, error) {
	const op = "usecase.UserService.Register"

	username := strings.TrimSpace(form.Username)
	if username == "" {
		return nil, NewValidationError("username", utils.MsgRequired)
	}
	if form.Password1 != form.Password2 {
		return nil, NewValidationError("password2", utils.MsgPasswordMatch)
	}
	if !utils.ValidatePassword(form.Password1) {
		return nil, NewValidationError("password1", utils.MsgWeakPassword)
	}

	hashed, err := services.HashPassword(form.Password1)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := &model.User{
		UserID:    utils.NewID(),
		Username:  username,
		Password:  hashed,
		CreatedAt: s.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrUserExists) {
			return nil, NewValidationError("username", MsgUserExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	utils.TrackRegistration()
	if err := s.events.Publish(ctx, services.Event{
		Type:       services.EventUserRegistered,
		EntityID:   user.UserID,
		OccurredAt: user.CreatedAt,
	}); err != nil {
		s.log.Warn("failed to publish event", slog.String("type", services.EventUserRegistered), utils.Err(err))
	}
	return user, nil
}

// Authenticate returns ErrInvalidCredentials for an unknown user and for a
// wrong password alike.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	const op = "usecase.UserService.Authenticate"

	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, model.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !services.ComparePasswords(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (*model.User, error) {
	const op = "usecase.UserService.Get"

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}
