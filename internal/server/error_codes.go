package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument  = 1000
	ErrCodeInvalidJSON      = 1001
	ErrCodeRequestTooLarge  = 1002
	ErrCodeInvalidID        = 1003
	ErrCodeMissingRequired  = 1004
	ErrCodeInvalidEmail     = 1005
	ErrCodeInvalidDoctype   = 1006
	ErrCodeSlotMultiplicity = 1007
	ErrCodeEmptyUpload      = 1008

	// Domain state (2xxx)
	ErrCodeUserNotFound     = 2001
	ErrCodePostNotFound     = 2002
	ErrCodeDocumentNotFound = 2003
	ErrCodeEmailExists      = 2101

	// Internal/system (4xxx)
	ErrCodeInternal        = 4001
	ErrCodeStoreFailure    = 4002
	ErrCodeBlobWriteFailed = 4003
	ErrCodeBlobReadFailed  = 4004
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 404:
		return ErrCodeUserNotFound
	case 409:
		return ErrCodeEmailExists
	case 500:
		return ErrCodeInternal
	default:
		return 0
	}
}
