package manifest

import "fmt"

// NetworkError indicates the manifest endpoint could not be reached or timed
// out. It is never retried automatically; a retry is a fresh user-initiated
// check.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch manifest %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError indicates the manifest body was not well-formed JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse manifest: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError indicates well-formed JSON that is missing the brands section
// or a required release field.
type SchemaError struct {
	Detail string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("manifest schema: %s", e.Detail)
}
