package services

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// PartialProvisioningError: the registry project exists and its credential
// is persisted, but a later configuration step failed. The project needs
// manual completion, not a retry of the whole creation.
type PartialProvisioningError struct {
	StudyID string
	Step    string
	Err     error
}

func (e *PartialProvisioningError) Error() string {
	return fmt.Sprintf("project for study '%s' created but %s import failed: %s", e.StudyID, e.Step, e.Err)
}

func (e *PartialProvisioningError) Unwrap() error {
	return e.Err
}
