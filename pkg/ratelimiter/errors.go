package ratelimiter

import "errors"

var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrAlreadyStarted = errors.New("rate limiter cleanup already started")
	ErrNotStarted     = errors.New("rate limiter cleanup not started")
)
