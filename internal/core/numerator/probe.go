package numerator

import (
	"context"
	"errors"
	"fmt"
)

// ErrExhausted is matched by errors.Is for every ExhaustedError.
var ErrExhausted = errors.New("number probe exhausted")

// ExhaustedError reports that every candidate in [Start, Start+Attempts) was taken.
type ExhaustedError struct {
	Start    int64
	Attempts int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("no free number in %d attempts starting at %d", e.Attempts, e.Start)
}

// Is implements errors.Is.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}

// ExistsFunc reports whether candidate is already in use.
type ExistsFunc func(ctx context.Context, candidate int64) (bool, error)

// Probe returns the first candidate starting at start for which exists
// reports false, trying at most attempts values. Lookup errors abort the
// probe immediately.
func Probe(ctx context.Context, start int64, attempts int, exists ExistsFunc) (int64, error) {
	if attempts <= 0 {
		return 0, &ExhaustedError{Start: start, Attempts: attempts}
	}

	candidate := start
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		taken, err := exists(ctx, candidate)
		if err != nil {
			return 0, fmt.Errorf("probe %d: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate++
	}
	return 0, &ExhaustedError{Start: start, Attempts: attempts}
}
