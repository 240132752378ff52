package common

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP Status Code Constants
const (
	// Success Codes (2xx)
	StatusOK        = 200
	StatusCreated   = 201
	StatusNoContent = 204

	// Client Error Codes (4xx)
	StatusBadRequest      = 400
	StatusUnauthorized    = 401
	StatusForbidden       = 403
	StatusNotFound        = 404
	StatusConflict        = 409
	StatusTooManyRequests = 429

	// Server Error Codes (5xx)
	StatusInternalServerError = 500
	StatusServiceUnavailable  = 503
)

// Response Messages
const (
	MsgSuccess = "Operation successful"
	MsgCreated = "Created successfully"

	MsgBadRequest         = "Invalid request"
	MsgUnauthorized       = "Please sign in"
	MsgForbidden          = "Access denied"
	MsgNotFound           = "Resource not found"
	MsgConflict           = "Data conflict"
	MsgTooManyRequests    = "Too many requests"
	MsgInternalError      = "Internal server error"
	MsgServiceUnavailable = "Service unavailable"

	MsgValidationError = "Invalid data"
	MsgDatabaseError   = "Database interaction failed"
	MsgInvalidFormat   = "Invalid data format"
)

// ErrorCode is a hierarchical error code (category / sub category).
type ErrorCode struct {
	Code        string // e.g. AUTH_001
	Category    string // e.g. Authentication
	SubCategory string // e.g. Token
	Description string
}

var (
	// System Errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{
		Code:        "SYS_001",
		Category:    "System",
		SubCategory: "Internal",
		Description: "Internal system error",
	}

	// Authentication Errors (AUTH_xxx)
	ErrCodeAuthToken = ErrorCode{
		Code:        "AUTH_001",
		Category:    "Authentication",
		SubCategory: "Token",
		Description: "Token related error",
	}

	ErrCodeAuthCredentials = ErrorCode{
		Code:        "AUTH_002",
		Category:    "Authentication",
		SubCategory: "Credentials",
		Description: "Credential error",
	}

	ErrCodeAuthRole = ErrorCode{
		Code:        "AUTH_003",
		Category:    "Authentication",
		SubCategory: "Role",
		Description: "Role or ownership error",
	}

	// Validation Errors (VAL_xxx)
	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    "Validation",
		SubCategory: "Input",
		Description: "Invalid input",
	}

	ErrCodeValidationFormat = ErrorCode{
		Code:        "VAL_002",
		Category:    "Validation",
		SubCategory: "Format",
		Description: "Invalid data format",
	}

	// Database Errors (DB_xxx)
	ErrCodeDatabase = ErrorCode{
		Code:        "DB",
		Category:    "Database",
		SubCategory: "General",
		Description: "General database error",
	}

	ErrCodeDatabaseConnection = ErrorCode{
		Code:        "DB_001",
		Category:    "Database",
		SubCategory: "Connection",
		Description: "Database connection error",
	}

	ErrCodeDatabaseQuery = ErrorCode{
		Code:        "DB_002",
		Category:    "Database",
		SubCategory: "Query",
		Description: "Query error",
	}

	// Business Logic Errors (BIZ_xxx)
	ErrCodeBusinessState = ErrorCode{
		Code:        "BIZ_001",
		Category:    "Business",
		SubCategory: "State",
		Description: "Invalid business state",
	}

	ErrCodeBusinessOperation = ErrorCode{
		Code:        "BIZ_002",
		Category:    "Business",
		SubCategory: "Operation",
		Description: "Invalid business operation",
	}
)

// Error is the application error carried from services to handlers.
type Error struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Details    any
}

// Error returns the message of the error
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes Details when it holds the underlying cause.
func (e *Error) Unwrap() error {
	if cause, ok := e.Details.(error); ok {
		return cause
	}
	return nil
}

// Is matches two application errors by code and message, so a sentinel still matches
// a copy created with Wrap.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	return e.Code.Code == t.Code.Code && e.Message == t.Message
}

// NewError creates a new error with full information
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// Wrap returns a copy of the sentinel error carrying cause as its details.
// errors.Is(Wrap(ErrX, cause), ErrX) and errors.Is(Wrap(ErrX, cause), cause) both hold.
func Wrap(sentinel error, cause error) error {
	var base *Error
	if !errors.As(sentinel, &base) {
		return sentinel
	}
	return &Error{
		Code:       base.Code,
		Message:    base.Message,
		StatusCode: base.StatusCode,
		Details:    cause,
	}
}

// Custom errors
var (
	// Authentication Errors
	ErrInvalidCredentials = NewError(ErrCodeAuthCredentials, "Incorrect email or password", StatusUnauthorized, nil)
	ErrTokenExpired       = NewError(ErrCodeAuthToken, "Session has expired", StatusUnauthorized, nil)
	ErrTokenInvalid       = NewError(ErrCodeAuthToken, "Invalid token", StatusUnauthorized, nil)
	ErrTokenMissing       = NewError(ErrCodeAuthToken, "Missing authentication token", StatusUnauthorized, nil)
	ErrUserNotFound       = NewError(ErrCodeAuthCredentials, "User not found", StatusNotFound, nil)
	ErrEmailTaken         = NewError(ErrCodeValidationInput, "Email already registered", StatusBadRequest, nil)
	ErrForbidden          = NewError(ErrCodeAuthRole, "Not authorized to perform this action", StatusForbidden, nil)
	ErrBusinessRoleOnly   = NewError(ErrCodeAuthRole, "Only business accounts can create businesses", StatusForbidden, nil)

	// Validation Errors
	ErrInvalidInput        = NewError(ErrCodeValidationInput, "Invalid input data", StatusBadRequest, nil)
	ErrInvalidFormat       = NewError(ErrCodeValidationFormat, MsgInvalidFormat, StatusBadRequest, nil)
	ErrRequiredField       = NewError(ErrCodeValidationInput, "Missing required field", StatusBadRequest, nil)
	ErrInvalidID           = NewError(ErrCodeValidationFormat, "Invalid id", StatusBadRequest, nil)
	ErrInvalidSequenceName = NewError(ErrCodeValidationInput, "Sequence name must not be empty", StatusBadRequest, nil)

	// Database Errors
	ErrNotFound           = NewError(ErrCodeDatabaseQuery, "Data not found", StatusNotFound, nil)
	ErrDuplicate          = NewError(ErrCodeDatabaseQuery, "Data already exists", StatusConflict, nil)
	ErrConnection         = NewError(ErrCodeDatabaseConnection, "Database connection error", StatusServiceUnavailable, nil)
	ErrStorageUnavailable = NewError(ErrCodeDatabaseConnection, "Storage operation could not complete", StatusServiceUnavailable, nil)
	ErrRatingNotRefreshed = NewError(ErrCodeDatabaseConnection, "Review saved, but the business rating could not be refreshed", StatusServiceUnavailable, nil)
	ErrBusinessNotFound   = NewError(ErrCodeDatabaseQuery, "Business not found", StatusNotFound, nil)
	ErrReviewNotFound     = NewError(ErrCodeDatabaseQuery, "Review not found", StatusNotFound, nil)
	ErrTripNotFound       = NewError(ErrCodeDatabaseQuery, "Trip not found", StatusNotFound, nil)

	// Business Logic Errors
	ErrAlreadyReviewed = NewError(ErrCodeBusinessState, "You have already reviewed this business", StatusConflict, nil)
	ErrInvalidState    = NewError(ErrCodeBusinessState, "Invalid state", StatusBadRequest, nil)
	ErrTripDates       = NewError(ErrCodeValidationInput, "end_date must not be before start_date", StatusBadRequest, nil)
)

// MongoDB Error Messages
const (
	MsgMongoConnection = "MongoDB connection error"
	MsgMongoNetwork    = "MongoDB network error"
	MsgMongoTimeout    = "MongoDB operation timed out"
	MsgMongoQuery      = "MongoDB query error"
	MsgMongoWrite      = "MongoDB write error"
	MsgMongoDuplicate  = "Duplicate data in MongoDB"
	MsgMongoSystem     = "MongoDB system error"
)

// MongoDB Specific Errors
var (
	ErrMongoConnection = NewError(ErrCodeDatabaseConnection, MsgMongoConnection, StatusServiceUnavailable, nil)
	ErrMongoNetwork    = NewError(ErrCodeDatabaseConnection, MsgMongoNetwork, StatusServiceUnavailable, nil)
	ErrMongoTimeout    = NewError(ErrCodeDatabaseConnection, MsgMongoTimeout, StatusServiceUnavailable, nil)
	ErrMongoQuery      = NewError(ErrCodeDatabaseQuery, MsgMongoQuery, StatusInternalServerError, nil)
	ErrMongoWrite      = NewError(ErrCodeDatabaseQuery, MsgMongoWrite, StatusInternalServerError, nil)
	ErrMongoDuplicate  = NewError(ErrCodeDatabaseQuery, MsgMongoDuplicate, StatusConflict, nil)
	ErrMongoSystem     = NewError(ErrCodeDatabase, MsgMongoSystem, StatusInternalServerError, nil)
)

// ConvertMongoError maps a MongoDB driver error onto an application error.
// The driver error is kept as the cause.
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}

	// Duplicate key has to be checked before the generic command code ranges.
	if mongo.IsDuplicateKeyError(err) {
		return Wrap(ErrMongoDuplicate, err)
	}
	if mongo.IsNetworkError(err) {
		return Wrap(ErrMongoNetwork, err)
	}
	if mongo.IsTimeout(err) {
		return Wrap(ErrMongoTimeout, err)
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch {
		case cmdErr.Code >= 100 && cmdErr.Code < 200:
			return Wrap(ErrMongoConnection, err)
		case cmdErr.Code >= 300 && cmdErr.Code < 400:
			return Wrap(ErrMongoQuery, err)
		case cmdErr.Code >= 400 && cmdErr.Code < 500:
			return Wrap(ErrMongoWrite, err)
		}
	}

	return NewError(ErrCodeDatabase, MsgDatabaseError, StatusInternalServerError, err)
}

// IsStorageFailure reports whether err came from the storage layer rather than from
// validation or a missing document.
func IsStorageFailure(err error) bool {
	if err == nil || errors.Is(err, ErrNotFound) {
		return false
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		switch appErr.Code.Code {
		case ErrCodeDatabase.Code, ErrCodeDatabaseConnection.Code:
			return true
		case ErrCodeDatabaseQuery.Code:
			return appErr.StatusCode >= StatusInternalServerError
		}
		return false
	}
	return true
}
