package repository

import "errors"

// ErrRepositoryClosed is returned by loading methods after Close.
var ErrRepositoryClosed = errors.New("rules repository is closed")
