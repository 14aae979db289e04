package model

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrNoPartnerBound  = errors.New("no partner bound")
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrConflict        = errors.New("version conflict")

	ErrSelfBind       = errors.New("cannot bind yourself as partner")
	ErrAlreadyPaired  = errors.New("already paired with another user")
	ErrDuplicate      = errors.New("username or email already registered")
	ErrBadCredentials = errors.New("invalid credentials")
)
