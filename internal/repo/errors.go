// Sentinel errors shared by the store implementations. Handlers translate
// these into HTTP statuses.
package repo

import "errors"

// ErrDuplicateEmail is returned when an insert violates the unique email
// index. Handlers pre-check with FindUserByEmail, but the check-and-create
// race still surfaces here.
var ErrDuplicateEmail = errors.New("email already registered")
