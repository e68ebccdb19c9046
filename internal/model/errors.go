package model

import "fmt"

// DuplicateEntityError reports a repeated entity name in the input list.
// Entity names are the external identity of the graph, so duplicates fail
// the whole computation before any matrix work begins.
type DuplicateEntityError struct {
	Name string
}

func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("duplicate entity name: %q", e.Name)
}

// UnknownEntityError reports an ownership edge referencing a name that is
// absent from the index mapping.
type UnknownEntityError struct {
	Name string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("edge references unknown entity: %q", e.Name)
}

// OutOfRangeRatioError reports an ownership percentage outside [0, 1].
type OutOfRangeRatioError struct {
	Owner      string
	Owned      string
	Percentage float64
}

func (e *OutOfRangeRatioError) Error() string {
	return fmt.Sprintf("ownership percentage %v for %q -> %q is outside [0, 1]", e.Percentage, e.Owner, e.Owned)
}
