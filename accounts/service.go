package accounts

import (
	"context"
	"net/http"
	"strings"

	"github.com/abhyasa/study-client/api"
	apperrors "github.com/abhyasa/study-client/internal/errors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// AuthAPI is the part of api.Client the account flows call.
type AuthAPI interface {
	Login(ctx context.Context, identifier, password string) (api.AuthResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (api.AuthResponse, error)
	Logout(ctx context.Context) error
}

// SessionStore is the part of sessions.Manager the account flows write to.
type SessionStore interface {
	SetToken(ctx context.Context, token string) error
	SetPaid(ctx context.Context, paid bool) error
	Clear(ctx context.Context) error
}

type Service struct {
	api      AuthAPI
	sessions SessionStore
	logger   zerolog.Logger
}

type ServiceOption func(*Service)

func WithLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(authAPI AuthAPI, sessions SessionStore, options ...ServiceOption) *Service {
	s := &Service{api: authAPI, sessions: sessions, logger: zerolog.Nop()}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Login validates the form, signs in and stores the new session.
func (s *Service) Login(ctx context.Context, form LoginForm) error {
	if err := form.Validate(); err != nil {
		return err
	}

	resp, err := s.api.Login(ctx, form.Identifier, form.Password)
	if err != nil {
		if api.StatusOf(err) == http.StatusNotFound && strings.Contains(api.MessageOf(err), "not found") {
			return apperrors.Wrapf(apperrors.ErrAccountNotFound, "%s", api.MessageOf(err))
		}
		return err
	}
	return s.establish(ctx, resp)
}

// Register validates the form and creates the account. The API signs the new
// user in, so the session is stored as for Login.
func (s *Service) Register(ctx context.Context, form RegistrationForm) error {
	if err := form.Validate(); err != nil {
		return err
	}

	resp, err := s.api.Register(ctx, form.Request())
	if err != nil {
		msg := api.MessageOf(err)
		if api.StatusOf(err) == http.StatusConflict && strings.Contains(strings.ToLower(msg), "already exists") {
			return apperrors.Wrapf(apperrors.ErrAlreadyRegistered, "%s", msg)
		}
		return err
	}
	return s.establish(ctx, resp)
}

// Logout tells the API to drop the refresh cookie and clears the local
// session whatever the API answers.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.api.Logout(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Logout call failed, clearing local session anyway")
	}
	return errors.Wrap(s.sessions.Clear(ctx), "[Service.Logout] clear session")
}

func (s *Service) establish(ctx context.Context, resp api.AuthResponse) error {
	if resp.Token == "" {
		return errors.Wrap(apperrors.ErrNoToken, "[Service.establish] auth response")
	}
	if err := s.sessions.SetToken(ctx, resp.Token); err != nil {
		return errors.Wrap(err, "[Service.establish] store token")
	}
	if err := s.sessions.SetPaid(ctx, resp.Payment); err != nil {
		return errors.Wrap(err, "[Service.establish] store paid flag")
	}
	s.logger.Info().Bool("paid", resp.Payment).Msg("Signed in")
	return nil
}
