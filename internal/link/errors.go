package link

import "fmt"

// KeyFieldError is raised at install time when a batched link
// configures a KeyField that does not exist on the target field's
// return type, so no row of a batched response could ever be matched
// back to the parent that requested it.
type KeyFieldError struct {
	TypeName  string
	FieldName string
	KeyField  string
	Reason    string
}

func (e *KeyFieldError) Error() string {
	return fmt.Sprintf("link: %s.%s: key field %q: %s", e.TypeName, e.FieldName, e.KeyField, e.Reason)
}

// TypeMismatchError is raised at install time when the configured
// link's declared field type does not match what the target field
// actually returns, and no disambiguating passthrough is possible.
type TypeMismatchError struct {
	TypeName  string
	FieldName string
	Reason    string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("link: %s.%s: %s", e.TypeName, e.FieldName, e.Reason)
}
