package domain

import "errors"

// Определение бизнес-ошибок
var (
	ErrEmployeeNotFound         = errors.New("employee not found")
	ErrNoChanges                = errors.New("submitted employee is identical to the stored one")
	ErrStaleWrite               = errors.New("employee was modified since it was read")
	ErrSelfSupervision          = errors.New("employee cannot be its own supervisor")
	ErrEmployeeInSubordinates   = errors.New("employee cannot be among its own subordinates")
	ErrSupervisorInSubordinates = errors.New("supervisor cannot be among subordinates")
	ErrStoreUnavailable         = errors.New("employee store is unavailable")
)
