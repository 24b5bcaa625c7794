package core

import (
	"errors"
	"math"
	"strings"
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidRate      = errors.New("invalid interest rate")
	ErrInvalidPercent   = errors.New("invalid minimum payment percent")
	ErrEmptyName        = errors.New("empty name")
	ErrNameTooLong      = errors.New("name too long (max 200 characters)")
	ErrInvalidPayType   = errors.New("invalid pay type")
	ErrInvalidPayDay    = errors.New("invalid pay day")
	ErrPayDayNotAllowed = errors.New("pay day must be empty for semi-monthly and monthly pay types")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidDuration  = errors.New("invalid minimum duration")
	ErrInvalidBracket   = errors.New("the upper bound must be larger than the lower bound")
)

const maxNameLength = 200

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if len(name) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func validateRate(rate float64) error {
	if rate < 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return ErrInvalidRate
	}
	return nil
}
