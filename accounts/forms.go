package accounts

import (
	"strings"

	"github.com/abhyasa/study-client/api"
	apperrors "github.com/abhyasa/study-client/internal/errors"
)

// Is lets callers match form errors with apperrors.ErrValidation.
func (e FieldErrors) Is(target error) bool {
	return target == apperrors.ErrValidation
}

// LoginForm signs in with an email address or a phone number.
type LoginForm struct {
	Identifier string `label:"Email or phone number" validate:"notblank"`
	Password   string `label:"Password" validate:"required"`
}

// Validate returns FieldErrors, or nil when the form can be submitted.
func (f LoginForm) Validate() error {
	errs := FieldErrors{}
	if !validateStruct(f, errs) {
		return errs
	}
	return nil
}

// RegistrationIdentity is how a new account is reached: an EmailIdentity or
// a PhoneIdentity, never both.
type RegistrationIdentity interface {
	apply(req *api.RegisterRequest)
}

type EmailIdentity struct {
	Email string `label:"Email" validate:"notblank,loose_email"`
}

func (i EmailIdentity) apply(req *api.RegisterRequest) { req.Email = i.Email }

type PhoneIdentity struct {
	Phone string `label:"Mobile number" validate:"notblank,in_mobile"`
}

func (i PhoneIdentity) apply(req *api.RegisterRequest) { req.Phone = i.Phone }

// IdentityFor picks the identity kind for a raw value: anything holding an @
// is an email address.
func IdentityFor(value string) RegistrationIdentity {
	if strings.Contains(value, "@") {
		return EmailIdentity{Email: value}
	}
	return PhoneIdentity{Phone: value}
}

type RegistrationForm struct {
	Name     string               `label:"Name" validate:"notblank"`
	Identity RegistrationIdentity `validate:"-"`
	Password string               `label:"Password" validate:"notblank,min=6"`
}

// Validate checks every field and returns all failures at once.
func (f RegistrationForm) Validate() error {
	errs := FieldErrors{}
	validateStruct(f, errs)

	identity := f.Identity
	if identity == nil {
		identity = EmailIdentity{}
	}
	validateStruct(identity, errs)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Request builds the register body carrying exactly one of email or phone.
func (f RegistrationForm) Request() api.RegisterRequest {
	req := api.RegisterRequest{Name: f.Name, Password: f.Password}
	if f.Identity != nil {
		f.Identity.apply(&req)
	}
	return req
}
