package types

// SuccessEnvelope wraps every successful JSON body as {"data": ...}.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the wire shape of a coded error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every error JSON body as {"error": ...}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
