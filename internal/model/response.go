package model

// ErrorResponse is the uniform failure body for everything except
// validation-list failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationError is one entry of a validation failure list.
type ValidationError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

type ValidationErrorsResponse struct {
	Errors []ValidationError `json:"errors"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
