package config

import "errors"

var errMissingJWTSecret = errors.New("JWT_SECRET must be set in production")
