package bookkeeping

import (
	"strings"
)

// ConfigurationError reports required generator defaults that were not supplied
type ConfigurationError struct {
	Missing []string
}

func (e ConfigurationError) Error() string {
	return "missing required defaults: " + strings.Join(e.Missing, ", ")
}

// Is matches any ConfigurationError
func (e ConfigurationError) Is(target error) bool {
	_, ok := target.(ConfigurationError)
	return ok
}
