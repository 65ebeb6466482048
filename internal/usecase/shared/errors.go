package shared

import "lab-booking/internal/pkg/errs"

// ErrDatabaseOperationFailed marks store failures the caller cannot correct.
var ErrDatabaseOperationFailed = errs.New("database operation failed")
