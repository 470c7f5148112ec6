package types

// SuccessEnvelope wraps every 2xx response body.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape: a stable machine code, a safe message,
// and optional field-level details.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every non-2xx response body.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
