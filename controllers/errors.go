package controllers

import (
	"errors"
	"fmt"
)

var (
	ErrNoPermission      = errors.New("you don't have permission to access this resource")
	ErrInvalidTableToken = errors.New("invalid or expired access token")
	ErrMissingTableToken = errors.New("access token is missing")
	ErrItemNotFound      = errors.New("item not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrNoActiveOrder     = errors.New("no active order for this table")
	ErrNotAllServed      = errors.New("table has items that are not served yet")
)

func ErrInvalidTableID(raw string) error {
	return fmt.Errorf("invalid table id %q", raw)
}
