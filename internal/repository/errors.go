package repository

import "errors"

var ErrUnknownPermission = errors.New("unknown permission")
