package handler

const (
	errBadRequest         = "Bad request"
	errUserNotFound       = "User not found"
	errEmailNotFound      = "email not found"
	errEmailTaken         = "Email is already registered"
	errInvalidCredentials = "Invalid credentials"
	errTokenInvalid       = "Token is invalid or expired"
	errUnauthorized       = "Unauthorized"
)

// errorResponse mirrors the success envelope so clients read one shape.
type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}
