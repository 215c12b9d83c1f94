package constants

// Pagination limits
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Session and context keys
const (
	ContextKeyUserID  = "user_id"
	SessionCookieName = "task_session"
)

// Authentication
const (
	MinPasswordLength = 8
)
