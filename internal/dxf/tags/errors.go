package tags

import "errors"

var (
	ErrKindMismatch = errors.New("tags: value kind mismatch")
	ErrEmptyRecord  = errors.New("tags: empty record")
	ErrNoStructure  = errors.New("tags: record does not start with a structure tag")
)
