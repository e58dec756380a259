package accounts_test

import (
	"testing"

	"github.com/abhyasa/study-client/accounts"
	"github.com/abhyasa/study-client/api"
	apperrors "github.com/abhyasa/study-client/internal/errors"
	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, err error) accounts.FieldErrors {
	t.Helper()

	require.ErrorIs(t, err, apperrors.ErrValidation)
	var errs accounts.FieldErrors
	require.ErrorAs(t, err, &errs)
	return errs
}

func TestLoginForm_Validate(t *testing.T) {
	require.NoError(t, accounts.LoginForm{Identifier: "9876543210", Password: "x"}.Validate())

	errs := fieldErrors(t, accounts.LoginForm{Identifier: "   "}.Validate())
	require.Equal(t, accounts.FieldErrors{
		"identifier": "Email or phone number is required",
		"password":   "Password is required",
	}, errs)
}

func TestRegistrationForm_Validate(t *testing.T) {
	tests := []struct {
		name string
		form accounts.RegistrationForm
		want accounts.FieldErrors
	}{
		{
			name: "valid email",
			form: accounts.RegistrationForm{Name: "Asha", Identity: accounts.EmailIdentity{Email: "asha@example.com"}, Password: "secret1"},
		},
		{
			name: "valid phone",
			form: accounts.RegistrationForm{Name: "Asha", Identity: accounts.PhoneIdentity{Phone: "9876543210"}, Password: "secret1"},
		},
		{
			name: "everything missing",
			form: accounts.RegistrationForm{Identity: accounts.PhoneIdentity{}},
			want: accounts.FieldErrors{
				"name":     "Name is required",
				"phone":    "Mobile number is required",
				"password": "Password is required",
			},
		},
		{
			name: "bad email and short password",
			form: accounts.RegistrationForm{Name: "Asha", Identity: accounts.EmailIdentity{Email: "asha@example"}, Password: "12345"},
			want: accounts.FieldErrors{
				"email":    "Please enter a valid email address",
				"password": "Password must be at least 6 characters",
			},
		},
		{
			name: "phone must start with 6 to 9",
			form: accounts.RegistrationForm{Name: "Asha", Identity: accounts.PhoneIdentity{Phone: "5876543210"}, Password: "secret1"},
			want: accounts.FieldErrors{"phone": "Please enter a valid 10-digit mobile number"},
		},
		{
			name: "phone must have ten digits",
			form: accounts.RegistrationForm{Name: "Asha", Identity: accounts.PhoneIdentity{Phone: "98765432100"}, Password: "secret1"},
			want: accounts.FieldErrors{"phone": "Please enter a valid 10-digit mobile number"},
		},
		{
			name: "missing identity asks for email",
			form: accounts.RegistrationForm{Name: "Asha", Password: "secret1"},
			want: accounts.FieldErrors{"email": "Email is required"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.form.Validate()
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			require.Equal(t, tc.want, fieldErrors(t, err))
		})
	}
}

func TestRegistrationForm_Request(t *testing.T) {
	form := accounts.RegistrationForm{Name: "Asha", Identity: accounts.IdentityFor("asha@example.com"), Password: "secret1"}
	require.Equal(t, api.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "secret1"}, form.Request())

	form.Identity = accounts.IdentityFor("9876543210")
	require.Equal(t, api.RegisterRequest{Name: "Asha", Phone: "9876543210", Password: "secret1"}, form.Request())
}

func TestFieldErrors_Error(t *testing.T) {
	errs := accounts.FieldErrors{"password": "Password is required", "name": "Name is required"}
	require.Equal(t, "validation failed: name: Name is required; password: Password is required", errs.Error())
}
