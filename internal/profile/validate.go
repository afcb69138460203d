package profile

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const maxNameLength = 64

var nameRegexp = regexp.MustCompile(`^[a-z0-9_-]+$`)

var nameRules = []validation.Rule{
	validation.Required.Error("must not be empty"),
	validation.RuneLength(1, maxNameLength).Error(fmt.Sprintf("must be at most %d characters", maxNameLength)),
	validation.Match(nameRegexp).Error("may only contain a-z, 0-9, '_' and '-'"),
}

// ValidateName checks that name can be used as a profile directory name.
func ValidateName(name string) error {
	if err := validation.Validate(name, nameRules...); err != nil {
		return fmt.Errorf("invalid profile name %q: %w", name, err)
	}
	return nil
}
