package accounts_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/abhyasa/study-client/accounts"
	"github.com/abhyasa/study-client/api"
	apperrors "github.com/abhyasa/study-client/internal/errors"
	"github.com/abhyasa/study-client/sessions"
	fakestore "github.com/abhyasa/study-client/storage/repofake"
	"github.com/stretchr/testify/require"
)

type fakeAuthAPI struct {
	calls     int
	resp      api.AuthResponse
	err       error
	logoutErr error
	lastReg   api.RegisterRequest
}

func (f *fakeAuthAPI) Login(_ context.Context, _, _ string) (api.AuthResponse, error) {
	f.calls++
	return f.resp, f.err
}

func (f *fakeAuthAPI) Register(_ context.Context, req api.RegisterRequest) (api.AuthResponse, error) {
	f.calls++
	f.lastReg = req
	return f.resp, f.err
}

func (f *fakeAuthAPI) Logout(context.Context) error {
	f.calls++
	return f.logoutErr
}

type serviceFixture struct {
	api      *fakeAuthAPI
	sessions *sessions.Manager
	service  *accounts.Service
}

func setupServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	m, err := sessions.NewManager(fakestore.NewFakeStore())
	require.NoError(t, err)
	fake := &fakeAuthAPI{resp: api.AuthResponse{Token: "tok-1", Payment: true}}
	return &serviceFixture{api: fake, sessions: m, service: accounts.NewService(fake, m)}
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("stores token activity and paid flag", func(t *testing.T) {
		f := setupServiceFixture(t)
		require.NoError(t, f.service.Login(ctx, accounts.LoginForm{Identifier: "asha@example.com", Password: "secret1"}))

		s, err := f.sessions.Read(ctx)
		require.NoError(t, err)
		require.Equal(t, "tok-1", s.AccessToken)
		require.NotNil(t, s.LastActiveAt)
		require.True(t, s.Paid)
	})

	t.Run("invalid form makes no call", func(t *testing.T) {
		f := setupServiceFixture(t)
		err := f.service.Login(ctx, accounts.LoginForm{})
		require.ErrorIs(t, err, apperrors.ErrValidation)
		require.Zero(t, f.api.calls)
	})

	t.Run("unknown account", func(t *testing.T) {
		f := setupServiceFixture(t)
		f.api.err = &api.APIError{Status: http.StatusNotFound, Message: "User not found"}
		err := f.service.Login(ctx, accounts.LoginForm{Identifier: "9876543210", Password: "secret1"})
		require.ErrorIs(t, err, apperrors.ErrAccountNotFound)

		tok, err := f.sessions.Token(ctx)
		require.NoError(t, err)
		require.Empty(t, tok)
	})

	t.Run("other API errors pass through", func(t *testing.T) {
		f := setupServiceFixture(t)
		f.api.err = &api.APIError{Status: http.StatusUnauthorized, Message: "Invalid credentials"}
		err := f.service.Login(ctx, accounts.LoginForm{Identifier: "9876543210", Password: "nope"})
		require.ErrorIs(t, err, apperrors.ErrUnauthorized)
		require.NotErrorIs(t, err, apperrors.ErrAccountNotFound)
	})

	t.Run("response without token", func(t *testing.T) {
		f := setupServiceFixture(t)
		f.api.resp = api.AuthResponse{}
		err := f.service.Login(ctx, accounts.LoginForm{Identifier: "9876543210", Password: "secret1"})
		require.ErrorIs(t, err, apperrors.ErrNoToken)
	})
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	form := accounts.RegistrationForm{Name: "Asha", Identity: accounts.PhoneIdentity{Phone: "9876543210"}, Password: "secret1"}

	t.Run("signs the new user in", func(t *testing.T) {
		f := setupServiceFixture(t)
		f.api.resp.Payment = false
		require.NoError(t, f.service.Register(ctx, form))
		require.Equal(t, "9876543210", f.api.lastReg.Phone)
		require.Empty(t, f.api.lastReg.Email)

		tok, err := f.sessions.Token(ctx)
		require.NoError(t, err)
		require.Equal(t, "tok-1", tok)
		paid, err := f.sessions.Paid(ctx)
		require.NoError(t, err)
		require.False(t, paid)
	})

	t.Run("already registered", func(t *testing.T) {
		f := setupServiceFixture(t)
		f.api.err = &api.APIError{Status: http.StatusConflict, Message: "User Already Exists"}
		require.ErrorIs(t, f.service.Register(ctx, form), apperrors.ErrAlreadyRegistered)
	})

	t.Run("invalid form makes no call", func(t *testing.T) {
		f := setupServiceFixture(t)
		bad := form
		bad.Password = "123"
		require.ErrorIs(t, f.service.Register(ctx, bad), apperrors.ErrValidation)
		require.Zero(t, f.api.calls)
	})
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()
	f := setupServiceFixture(t)
	require.NoError(t, f.service.Login(ctx, accounts.LoginForm{Identifier: "asha@example.com", Password: "secret1"}))

	f.api.logoutErr = errors.New("connection refused")
	require.NoError(t, f.service.Logout(ctx))

	s, err := f.sessions.Read(ctx)
	require.NoError(t, err)
	require.False(t, s.HasToken())
	require.Nil(t, s.LastActiveAt)
	require.False(t, s.Paid)
}
