package validate

import (
	"fmt"
	"regexp"
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// colorRx matches the #rgb and #rrggbb hex forms the calendar UI sends.
var colorRx = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func Email(v string) error {
	if v == "" {
		return fmt.Errorf("email is required")
	}
	if len(v) > 320 || !emailRx.MatchString(v) {
		return fmt.Errorf("invalid email")
	}
	return nil
}

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func MaxLen(field, v string, limit int) error {
	if len(v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}

// Color validates an optional hex color. Empty is allowed; services fill in
// defaults.
func Color(v string) error {
	if v == "" {
		return nil
	}
	if !colorRx.MatchString(v) {
		return fmt.Errorf("color must be a hex value like #3174ad")
	}
	return nil
}
