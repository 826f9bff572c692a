package service

import "errors"

var (
	ErrUnauthenticated = errors.New("not logged in")
	ErrWrongPassword   = errors.New("wrong password")
)
