package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s not found!", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func NotFound(entity, id string) error { return &NotFoundError{Entity: entity, ID: id} }

// ConflictError 同名实体已存在（名称/用户名/邮箱）
type ConflictError struct {
	Entity string
	Field  string
}

func (e *ConflictError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s with this %s already exists", e.Entity, e.Field)
	}
	return e.Entity + " already exists"
}

func (e *ConflictError) Is(target error) bool { return target == ErrAlreadyExists }

func Conflict(entity string) error { return &ConflictError{Entity: entity} }

func ConflictOn(entity, field string) error { return &ConflictError{Entity: entity, Field: field} }
