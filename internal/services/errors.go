package services

import "errors"

var (
	ErrRecommendationNotFound = errors.New("recommendation not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidOutcome         = errors.New("invalid outcome")
	ErrInvalidPolicy          = errors.New("invalid ranking policy")
	ErrPolicyConflict         = errors.New("ranking policy changed concurrently")
)
