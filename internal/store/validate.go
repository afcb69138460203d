package store

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ccumaco/ai-frontend/internal/api"
)

const maxNameLength = 200

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports invalid input detected before any request is
// issued. Fields maps the JSON field name to its message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func notBlank(msg string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return &ValidationError{Fields: map[string]string{"": err.Error()}}
	}
	fields := make(map[string]string, len(errs))
	for k, v := range errs {
		fields[k] = v.Error()
	}
	return &ValidationError{Fields: fields}
}

// ValidateProject checks a create request locally.
func ValidateProject(req api.CreateProjectRequest) error {
	return toValidationError(validation.ValidateStruct(&req,
		validation.Field(&req.Name,
			validation.By(notBlank("Project name is required")),
			validation.RuneLength(0, maxNameLength).Error("Project name is too long"),
		),
	))
}

// ValidateChat checks a create request locally. The project id is only
// required to be present; its existence is the backend's concern.
func ValidateChat(req api.CreateChatRequest) error {
	return toValidationError(validation.ValidateStruct(&req,
		validation.Field(&req.ProjectID, validation.By(notBlank("A project must be selected"))),
		validation.Field(&req.Name,
			validation.By(notBlank("Chat name is required")),
			validation.RuneLength(0, maxNameLength).Error("Chat name is too long"),
		),
	))
}
