package repo

import "errors"

// ErrNotFound covers both "does not exist" and "exists outside the
// caller's tenant scope". The two are deliberately indistinguishable.
var ErrNotFound = errors.New("not found")
