package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	ErrCodeInvalidUserID    = "invalid_user_id"
	ErrCodeEmptyMessage     = "empty_message"
	ErrCodeInvalidUpload    = "invalid_upload"
	ErrCodeModelResponse    = "model_response_invalid"
	ErrCodeAnalysisFailed   = "analysis_failed"
	ErrCodeResetFailed      = "reset_failed"
	ErrCodeSiteNotGenerated = "site_not_generated"
	ErrCodePublishDisabled  = "publish_disabled"
	ErrCodePublishAuth      = "publish_auth_failed"
	ErrCodePublishTarget    = "publish_target_missing"
	ErrCodePublishFailed    = "publish_failed"
	ErrCodeInvalidDate      = "invalid_date"
	ErrCodeChatFailed       = "chat_failed"
	ErrCodeUploadFailed     = "upload_failed"
	ErrCodeUploadTooLarge   = "upload_too_large"
	ErrCodeGenerateFailed   = "generate_failed"
	ErrCodeReadFailed       = "read_failed"
)
