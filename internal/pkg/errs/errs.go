package errs

import (
	cr "github.com/cockroachdb/errors"
)

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func New(msg string) error {
	return cr.New(msg)
}

func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}

// Is must be used instead of the standard library's errors.Is wherever the
// error may carry a sentinel attached via Mark; marks live outside the
// Unwrap chain and only this check sees them.
func Is(err error, reference error) bool {
	return cr.Is(err, reference)
}
