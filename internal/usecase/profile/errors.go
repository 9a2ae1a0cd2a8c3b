package profile

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError collects every user-correctable problem found in an update
// payload. It is always complete: validation never stops at the first bad
// field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

// UploadError reports a storage write or URL-generation failure other than
// missing credentials.
type UploadError struct {
	Cause error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("error uploading profile image: %v", e.Cause)
}

func (e *UploadError) Unwrap() error { return e.Cause }

// PersistError reports a failed entity save. Partial marks the case where the
// account was already saved when the profile save failed, i.e. the two
// entities may be inconsistent even after the compensating revert.
type PersistError struct {
	Partial bool
	Cause   error
}

func (e *PersistError) Error() string {
	if e.Partial {
		return fmt.Sprintf("partial update: account saved but profile save failed: %v", e.Cause)
	}
	return fmt.Sprintf("profile update not persisted: %v", e.Cause)
}

func (e *PersistError) Unwrap() error { return e.Cause }
