package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Decode errors (100-199)
	ErrCodeUnrecognizedShape     ErrorCode = 100
	ErrCodeStructuredStringParse ErrorCode = 101
	ErrCodeEmptyPayload          ErrorCode = 102
	ErrCodeRaggedColumns         ErrorCode = 103
	ErrCodeNonScalarValue        ErrorCode = 104

	// Schema errors (200-299)
	ErrCodeNoTemporalRows ErrorCode = 200

	// Plan errors (300-399)
	ErrCodeMissingRequiredColumn ErrorCode = 300

	// Strategy errors (400-499)
	ErrCodeUnknownStrategyMode ErrorCode = 400
	ErrCodeUnknownTimeframe    ErrorCode = 401

	// Store errors (500-599)
	ErrCodeStoreFetchFailed ErrorCode = 500
	ErrCodeStoreListFailed  ErrorCode = 501
	ErrCodeStorePutFailed   ErrorCode = 502
	ErrCodeStoreNotFound    ErrorCode = 503
	ErrCodeStoreUnavailable ErrorCode = 504
)
