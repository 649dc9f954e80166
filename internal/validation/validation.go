package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/Semicile17/Campus-Connect/internal/model"
)

const (
	notBlankTag   = "notblank"
	isoDateTag    = "isodate"
	statusTag     = "attendance_status"
	priorityTag   = "priority"
	isoDateLayout = "2006-01-02"
)

// Validator checks request payloads and renders failures in English, keyed
// by JSON field name.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func New() *Validator {
	validate := validator.New()

	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlank)
	_ = validate.RegisterValidation(isoDateTag, isoDate)
	_ = validate.RegisterValidation(statusTag, attendanceStatus)
	_ = validate.RegisterValidation(priorityTag, priority)

	v := &Validator{validate: validate, translator: translator}
	v.registerMessages(map[string]string{
		notBlankTag: "{0} cannot be blank",
		isoDateTag:  "{0} must be a date formatted as YYYY-MM-DD",
		statusTag:   "{0} must be one of present, absent, holiday",
		priorityTag: "{0} must be one of low, medium, high",
	})
	return v
}

func (v *Validator) registerMessages(messages map[string]string) {
	for tag, text := range messages {
		_ = v.validate.RegisterTranslation(tag, v.translator,
			func(t ut.Translator) error { return t.Add(tag, text, true) },
			func(t ut.Translator, fe validator.FieldError) string {
				msg, _ := t.T(fe.Tag(), fe.Field())
				return msg
			},
		)
	}
}

// Struct validates s and returns field -> message, or nil when s is valid.
func (v *Validator) Struct(s any) map[string]string {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"": err.Error()}
	}
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fieldPath(fe)] = fe.Translate(v.translator)
	}
	return fields
}

// fieldPath drops the top-level struct name from the namespace so nested
// fields read like "student.year".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func notBlank(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func isoDate(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := parseDate(str)
	return err == nil
}

func attendanceStatus(fl validator.FieldLevel) bool {
	return model.AttendanceStatus(fl.Field().String()).Valid()
}

func priority(fl validator.FieldLevel) bool {
	switch model.Priority(fl.Field().String()) {
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
		return true
	default:
		return false
	}
}
