package store

import "fmt"

// DuplicateNameError reports a name collision: a sibling group with the same
// name under the same parent, or a role/organization whose name is already
// taken within its scope. Recoverable; surfaced to callers as a conflict.
type DuplicateNameError struct {
	Kind string // "group", "role", "organization"
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s named '%s' already exists", e.Kind, e.Name)
}

// NotFoundError reports an unknown entity id or name.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Kind, e.ID)
}

// PreconditionError reports an operation rejected because the state it
// requires does not hold, e.g. joining a group without organization
// membership, or a move that would make a group its own ancestor.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}
