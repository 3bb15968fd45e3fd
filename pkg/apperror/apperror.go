package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrMissingField    = errors.New("missing field")
	ErrInvalidParent   = errors.New("invalid parent")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrBadRequest      = errors.New("bad request")

	// Worker-side failures. They terminate a job and are never surfaced to a caller.
	ErrInvalidJob                = errors.New("invalid job")
	ErrFileNotFound              = errors.New("file not found")
	ErrThumbnailGenerationFailed = errors.New("thumbnail generation failed")
)

const internalMessage = "Internal Server Error"

// AppError pairs a sentinel error with the short message shown to clients.
type AppError struct {
	Err     error
	Message string
	Field   string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func MissingField(field string) *AppError {
	return &AppError{Err: ErrMissingField, Message: "Missing " + field, Field: field}
}

func InvalidParent(message string) *AppError {
	return &AppError{Err: ErrInvalidParent, Message: message, Field: "parentId"}
}

// Unauthenticated is deliberately identical for every cause (no token,
// unknown token, expired session, vanished user).
func Unauthenticated() *AppError {
	return &AppError{Err: ErrUnauthenticated, Message: "Unauthorized"}
}

// NotFound is also returned when a record exists but the caller may not see it.
func NotFound() *AppError {
	return &AppError{Err: ErrNotFound, Message: "Not found"}
}

func AlreadyExists() *AppError {
	return &AppError{Err: ErrAlreadyExists, Message: "Already exist"}
}

func BadRequest(message string) *AppError {
	return &AppError{Err: ErrBadRequest, Message: message}
}

func InvalidJob(message string) *AppError {
	return &AppError{Err: ErrInvalidJob, Message: message}
}

func FileNotFound() *AppError {
	return &AppError{Err: ErrFileNotFound, Message: "File not found"}
}

func ThumbnailGenerationFailed(err error) error {
	return &wrapped{AppError: AppError{Err: ErrThumbnailGenerationFailed, Message: "Thumbnail generation failed"}, cause: err}
}

// wrapped keeps the underlying cause reachable for logs while matching the sentinel.
type wrapped struct {
	AppError
	cause error
}

func (w *wrapped) Error() string {
	if w.cause == nil {
		return w.Message
	}
	return w.Message + ": " + w.cause.Error()
}

func (w *wrapped) Unwrap() []error {
	if w.cause == nil {
		return []error{w.Err}
	}
	return []error{w.Err, w.cause}
}

// HTTPStatus maps an error onto the status code of the public taxonomy.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrMissingField),
		errors.Is(err, ErrInvalidParent),
		errors.Is(err, ErrAlreadyExists),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the client-safe message for err. Unknown errors never
// leak their text.
func PublicMessage(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return internalMessage
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Message
	}
	switch HTTPStatus(err) {
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusNotFound:
		return "Not found"
	default:
		return "Bad request"
	}
}
