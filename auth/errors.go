package auth

import "errors"

// Authentication errors
var (
	ErrMissingTenantID = errors.New("tenant ID is required")
	ErrMissingClientID = errors.New("client ID is required")
)
