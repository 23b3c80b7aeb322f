package review

import (
	"errors"
	"fmt"
)

var (
	ErrBusy              = errors.New("another operation is in progress")
	ErrNoDocument        = errors.New("no document selected")
	ErrNoCategory        = errors.New("no category selected")
	ErrUnknownField      = errors.New("unknown field")
	ErrExportUnavailable = errors.New("export is only available on the reviewed tab")
)

// NotFoundError is returned when a document id is not in the current list.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("document %d not found in the current list", e.ID)
}
