package matcher

import (
	"errors"
	"fmt"
)

// PreconditionError aborts a run before any network call is made: the
// persona has no embedding, or no document does. Fatal for the run,
// never retried.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot start match run: %s", e.Reason)
}

// ErrEmptyQueryVector is the only failure mode of the ranker itself;
// candidate documents with mismatched dimensions are skipped, not failed.
var ErrEmptyQueryVector = errors.New("query vector is empty")

// ErrRunInProgress is returned when a find-matches request arrives while
// a previous run is still ranking or judging.
var ErrRunInProgress = errors.New("a match run is already in progress")
