package service

import (
	"errors"

	"github.com/wordageddon/wordageddon/internal/domain"
)

// Common service errors
var (
	ErrUserNotFound       = domain.ErrUserNotFound
	ErrUserAlreadyExists  = domain.ErrUserAlreadyExists
	ErrInvalidCredentials = domain.ErrInvalidCredentials
	ErrPlayNotFound       = domain.ErrPlayNotFound
	ErrCorpusEmpty        = domain.ErrEmptyCorpus
	ErrNoSnapshot         = errors.New("no index snapshot available")
)
