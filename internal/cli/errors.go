package cli

import "errors"

// ErrUsage marks operator mistakes (missing arguments, bad flags, malformed
// config files) so callers can distinguish them from pipeline failures.
var ErrUsage = errors.New("cli usage error")

type usageError struct {
	msg string
}

func newUsageError(msg string) error {
	return usageError{msg: msg}
}

func (e usageError) Error() string {
	return e.msg
}

func (e usageError) Is(target error) bool {
	return target == ErrUsage
}
