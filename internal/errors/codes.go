package errors

// Error codes returned in the `code` field of the error envelope.
// Format: CATEGORY_SPECIFIC_DETAIL

const (
	// auth
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"

	// validation
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// resources
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// properties
	PropertyNotFound     = "PROPERTY_NOT_FOUND"
	PropertyPIDExists    = "PROPERTY_PID_EXISTS"
	ImageNotFound        = "IMAGE_NOT_FOUND"
	ImagePrimaryConflict = "IMAGE_PRIMARY_CONFLICT"
	FilterNotFound       = "FILTER_NOT_FOUND"
	FilterNameExists     = "FILTER_NAME_EXISTS"

	// upload
	UploadNoFile          = "UPLOAD_NO_FILE"
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"
	StorageUnavailable    = "STORAGE_UNAVAILABLE"

	// internal
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
