package usecase

import "errors"

// Client-input failures surfaced to the delivery layer. Storage failures are
// collapsed into ErrInternal; handlers never see driver errors.
var (
	ErrInvalidName        = errors.New("invalid skill name")
	ErrUnknownSkill       = errors.New("unknown skill")
	ErrInsufficientSkills = errors.New("insufficient skills")
	ErrSelfMatch          = errors.New("cannot match with yourself")
	ErrUnknownUser        = errors.New("unknown user")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInternal           = errors.New("internal error")
)
