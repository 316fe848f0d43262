package models

// ValidationError marks a malformed study document. It is never retried:
// the submitted document has to be corrected by the caller.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return "validation: " + e.Reason
	}
	return "validation: " + e.Path + ": " + e.Reason
}

func validationErr(path, reason string) error {
	return &ValidationError{Path: path, Reason: reason}
}
