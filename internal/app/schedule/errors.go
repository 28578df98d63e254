package schedule

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func malformedActivity(field string, reason string) *Error {
	return &Error{
		Status:  422,
		Code:    "MALFORMED_ACTIVITY",
		Message: "activity batch contains a malformed activity",
		Details: map[string]any{field: reason},
	}
}

func invalidFix(reason string, details map[string]any) *Error {
	return &Error{Status: 422, Code: "INVALID_FIX", Message: reason, Details: details}
}
