package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/domain/event"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

// AuthService registers and logs in users. Cache and Events are optional.
type AuthService struct {
	Repo   repo.UserRepository
	Tokens TokenIssuer
	Cache  UserCache
	Events EventPublisher
	Logger *logrus.Logger
}

func NewAuthService(repo repo.UserRepository, tokens TokenIssuer, cache UserCache, events EventPublisher, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Repo:   repo,
		Tokens: tokens,
		Cache:  cache,
		Events: events,
		Logger: logger,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (entity.PublicUser, Session, error) {
	existing, err := s.Repo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil && existing != nil:
		return entity.PublicUser{}, Session{}, ErrEmailAlreadyExists
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return entity.PublicUser{}, Session{}, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return entity.PublicUser{}, Session{}, err
	}
	u := &entity.User{Name: in.Name, Email: in.Email, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repo.ErrDuplicate) {
			return entity.PublicUser{}, Session{}, ErrEmailAlreadyExists
		}
		return entity.PublicUser{}, Session{}, err
	}

	sess, err := s.issue(u.ID)
	if err != nil {
		return entity.PublicUser{}, Session{}, err
	}
	metricRegistrations.Add(1)

	pub := u.Public()
	s.cache(ctx, pub)
	s.publish(ctx, event.NewUserRegistered(pub))
	return pub, sess, nil
}

// Login fails with ErrInvalidCredentials for an unknown email and for a wrong
// password alike, so callers cannot tell which check failed.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (entity.PublicUser, Session, error) {
	u, err := s.Repo.GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return entity.PublicUser{}, Session{}, err
	}
	if u == nil || !helpers.CompareHashAndPassword(u.Password, in.Password) {
		metricLoginFailures.Add(1)
		return entity.PublicUser{}, Session{}, ErrInvalidCredentials
	}

	sess, err := s.issue(u.ID)
	if err != nil {
		return entity.PublicUser{}, Session{}, err
	}
	metricLogins.Add(1)
	return u.Public(), sess, nil
}

// GetUserByID reads through the user cache; users never change once created.
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (entity.PublicUser, error) {
	if s.Cache != nil {
		cached, err := s.Cache.Get(ctx, userID)
		if err != nil {
			helpers.LogWarn(s.Logger, "user cache read failed", err, logrus.Fields{"user_id": userID})
		} else if cached != nil {
			return *cached, nil
		}
	}

	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return entity.PublicUser{}, ErrUserNotFound
		}
		return entity.PublicUser{}, err
	}
	pub := u.Public()
	s.cache(ctx, pub)
	return pub, nil
}

func (s *AuthService) issue(userID string) (Session, error) {
	token, exp, err := s.Tokens.Issue(userID)
	if err != nil {
		helpers.LogError(s.Logger, "issue session token failed", err, logrus.Fields{"user_id": userID})
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) cache(ctx context.Context, u entity.PublicUser) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Set(ctx, u); err != nil {
		helpers.LogWarn(s.Logger, "user cache write failed", err, logrus.Fields{"user_id": u.ID})
	}
}

func (s *AuthService) publish(ctx context.Context, evt event.Event) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishJSON(ctx, evt.Type, evt); err != nil {
		helpers.LogWarn(s.Logger, "publish event failed", err, logrus.Fields{"type": evt.Type, "user_id": evt.UserID})
	}
}
