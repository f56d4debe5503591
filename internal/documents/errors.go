package documents

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Precondition errors. They are returned before any remote call is made.
var (
	// ErrUnbound is returned by network operations of an entity that was
	// not obtained through a Manager.
	ErrUnbound = errors.New("entity has no credentials bound: obtain it through a manager")

	// ErrSheetDetached is returned when a sheet has no spreadsheet assigned,
	// including after the sheet was deleted.
	ErrSheetDetached = errors.New("spreadsheet for the sheet is unknown")

	// ErrLengthMismatch is returned when the number of ranges and value
	// grids of a write differ.
	ErrLengthMismatch = errors.New("number of ranges does not match number of values")

	// ErrInvalidCriterion is returned for filter criteria that cannot be
	// expressed in the Drive query language.
	ErrInvalidCriterion = errors.New("invalid filter criterion")

	// ErrInvalidValueInputOption is returned for value input options other
	// than RAW and USER_ENTERED.
	ErrInvalidValueInputOption = errors.New("invalid value input option")

	// ErrSheetNotFound is returned when a spreadsheet has no sheet with
	// the requested title.
	ErrSheetNotFound = errors.New("sheet not found")
)

// IsNotFound reports whether err is a remote "not found" response.
func IsNotFound(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusNotFound
	}
	return false
}
