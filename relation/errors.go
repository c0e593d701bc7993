package relation

import (
	"errors"
	"fmt"
)

// ConfigError reports invalid or missing relationship configuration.
// It is raised at declaration (or declaration-file load) time, never at
// query time.
type ConfigError struct {
	// Name is the relationship or accessor name being declared, when known.
	Name string

	// Message describes what was wrong.
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("relationship %q: %s", e.Name, e.Message)
	}
	return e.Message
}

// IsConfig reports whether err is (or wraps) a ConfigError.
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

func configErrorf(name, format string, args ...any) *ConfigError {
	return &ConfigError{Name: name, Message: fmt.Sprintf(format, args...)}
}
