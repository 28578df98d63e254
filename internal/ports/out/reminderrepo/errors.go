package reminderrepo

import "errors"

var ErrNotFound = errors.New("reminder not found")
