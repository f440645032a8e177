package config

import "errors"

var (
	ErrNilConfig = errors.New("config: nil destination")
	ErrDotenv    = errors.New("config: failed to load .env file")
	ErrParse     = errors.New("config: failed to parse environment")
)
