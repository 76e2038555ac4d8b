package isf

import "fmt"

// ErrEmptyFieldName describes the ConsistencyWarning case of a STRUCT
// or UNION member that has no name and whose referenced type is not
// itself an anonymous struct/union (the one case BTF permits an
// unnamed field: an anonymous embedded struct/union). The builder does
// not construct this type; it records the case as a Warning with the
// same wording and synthesizes a field name.
type ErrEmptyFieldName struct {
	Parent string
	Index  int
}

func (e ErrEmptyFieldName) Error() string {
	return fmt.Sprintf("isf: %s: member %d has no name and is not an anonymous embedded struct/union", e.Parent, e.Index)
}
