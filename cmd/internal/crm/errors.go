package crm

import "errors"

var (
	// ErrNoteNotFound is returned when a note id is not registered.
	ErrNoteNotFound = errors.New("note id not registered")

	// ErrCustomerNotFound is returned when a customer id is not registered.
	ErrCustomerNotFound = errors.New("customer id not registered")

	// ErrSalesNotFound is returned when a note references an unknown sales
	// username.
	ErrSalesNotFound = errors.New("sales user not registered")

	// ErrInvalidColumn is returned when a status-color request names a
	// column outside the numeric allow list.
	ErrInvalidColumn = errors.New("invalid numeric column")
)
