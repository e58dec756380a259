package accounts

import (
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	// custom validation tags
	requiredTag = "required"
	notBlankTag = "notblank"
	emailTag    = "loose_email"
	mobileTag   = "in_mobile"
	minTag      = "min"

	emailPattern  = regexp.MustCompile(`\S+@\S+\.\S+`)
	mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

	messages = map[string]string{
		requiredTag: "{0} is required",
		notBlankTag: "{0} is required",
		emailTag:    "Please enter a valid email address",
		mobileTag:   "Please enter a valid 10-digit mobile number",
		minTag:      "{0} must be at least {1} characters",
	}
)

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")

	// Messages read "<label> is required", so errors name fields by label.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlank)
	_ = validate.RegisterValidation(emailTag, matches(emailPattern))
	_ = validate.RegisterValidation(mobileTag, matches(mobilePattern))

	for tag, text := range messages {
		_ = validate.RegisterTranslation(tag, translator, addTranslation(tag, text), translate)
	}
}

func addTranslation(tag, text string) validator.RegisterTranslationsFunc {
	return func(trans ut.Translator) error {
		return trans.Add(tag, text, true)
	}
}

func translate(trans ut.Translator, fe validator.FieldError) string {
	msg, err := trans.T(fe.Tag(), fe.Field(), fe.Param())
	if err != nil {
		return fe.Error()
	}
	return msg
}

func notBlank(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		return ok && re.MatchString(str)
	}
}

// FieldErrors maps a form field to the message shown next to it.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// validateStruct runs the struct tags of v into errs, keyed by the lower case
// Go field name. It reports whether v was valid.
func validateStruct(v any, errs FieldErrors) bool {
	err := validate.Struct(v)
	if err == nil {
		return true
	}
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["form"] = err.Error()
		return false
	}
	for _, fe := range vErrs {
		errs[strings.ToLower(fe.StructField())] = fe.Translate(translator)
	}
	return false
}
