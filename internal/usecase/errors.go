package usecase

import (
	"errors"
	"fmt"

	"app/internal/domain/model"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 入力不正（400）。呼び出し側が入力を直せばリカバリできる。
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// 所有者以外の操作（403）
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

func NewAuthorizationError(message string) error {
	return &AuthorizationError{Message: message}
}

// 満員または受付終了（409）。購入者には「no longer available」として見せる。
type CapacityError struct {
	Message string
}

func (e *CapacityError) Error() string {
	return e.Message
}

func NewCapacityError(message string) error {
	return &CapacityError{Message: message}
}

// 終端ステータスからの遷移（409）。リプレイかロジックバグの疑い。
type InvalidTransitionError struct {
	From model.PaymentStatus
	To   model.PaymentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s", e.From, e.To)
}
