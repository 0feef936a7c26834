package response

import "errors"

var (
	ErrNoHeader          = errors.New("artifact has no header row")
	ErrMissingHeaderRows = errors.New("artifact has fewer rows than the metadata header")
	ErrNoResponseID      = errors.New("column ResponseId is missing")
	ErrEmptyResponseID   = errors.New("row has empty ResponseId")
	ErrDuplicateID       = errors.New("duplicate ResponseId")
	ErrUnsupportedFormat = errors.New("artifact format cannot be decoded into responses")
	ErrNotFound          = errors.New("response not found")
	ErrNotMaterialized   = errors.New("responses are not materialized")
)
