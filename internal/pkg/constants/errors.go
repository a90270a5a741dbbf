package constants

import "net/http"

// CodedError is an error that knows which HTTP status it maps to.
type CodedError struct {
	msg  string
	code int
}

func NewCodedError(msg string, code int) *CodedError {
	return &CodedError{msg: msg, code: code}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrValidation     = NewCodedError("invalid input", http.StatusBadRequest)
	ErrDuplicateEntry = NewCodedError("itinerary item already exists", http.StatusConflict)
	ErrItemNotFound   = NewCodedError("itinerary item not found", http.StatusNotFound)
	ErrNotFound       = NewCodedError("not found", http.StatusNotFound)
	ErrDBNotFound     = NewCodedError("record not found", http.StatusNotFound)
	ErrUserExists     = NewCodedError("account already registered", http.StatusConflict)
	// ErrAuthFailure never says which of the two credentials was wrong.
	ErrAuthFailure       = NewCodedError("account or password incorrect", http.StatusUnauthorized)
	ErrUnauthorized      = NewCodedError("unauthorized", http.StatusUnauthorized)
	ErrMissingAuthCookie = NewCodedError("missing auth cookie", http.StatusUnauthorized)
	ErrStoreCorrupt      = NewCodedError("account store is corrupt", http.StatusInternalServerError)
	ErrNoRecommendations = NewCodedError("preferences have not been submitted yet", http.StatusConflict)
)
