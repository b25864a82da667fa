package handler

const (
	errInternalServer = "Internal server error"
	errEmailTaken     = "Email already registered"
	errInvalidCreds   = "Invalid credentials"
	errUserNotFound   = "User not found"
	errTokenInvalid   = "Invalid or expired token"
	errOldPassword    = "Old password incorrect"
	errInvalidSlot    = "slot must be an RFC3339 timestamp"
)
