package handler

import "errors"

var errBadName = errors.New("bad name")
