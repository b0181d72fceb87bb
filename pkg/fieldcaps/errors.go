// SPDX-License-Identifier: Apache-2.0

package fieldcaps

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIndexNotFound is returned when no index matched the pattern and at least
// one pattern token was an exact literal. Wildcard-only misses are not an
// error.
type ErrIndexNotFound struct {
	Pattern string
}

func (e ErrIndexNotFound) Error() string {
	return fmt.Sprintf("no such index [%s]", e.Pattern)
}

// ErrAllSnapshotsFailed is returned when every matched index failed its
// schema fetch. A partial failure is not an error: the failing indices are
// omitted from the result instead.
type ErrAllSnapshotsFailed struct {
	IndexErrs map[string]error
}

func (e ErrAllSnapshotsFailed) Error() string {
	indices := make([]string, 0, len(e.IndexErrs))
	for index := range e.IndexErrs {
		indices = append(indices, index)
	}
	return fmt.Sprintf("schema fetch failed for all matched indices [%s]", strings.Join(indices, ","))
}

func (e ErrAllSnapshotsFailed) Unwrap() []error {
	errs := make([]error, 0, len(e.IndexErrs))
	for _, err := range e.IndexErrs {
		errs = append(errs, err)
	}
	return errs
}

var ErrEmptyIndexPattern = errors.New("empty index pattern")
