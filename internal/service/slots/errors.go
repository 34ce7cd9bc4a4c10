package slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrFacilityNotFound возвращается, когда площадка не найдена
	ErrFacilityNotFound = errors.New("facility not found")

	// ErrFacilityInactive возвращается для выключенной площадки
	ErrFacilityInactive = errors.New("facility is inactive")

	// ErrAccessDenied возвращается, когда пользователь не партнёр площадки
	ErrAccessDenied = errors.New("access denied")

	// ErrDuplicateSlot возвращается при создании слота на занятое время
	ErrDuplicateSlot = errors.New("slot already exists for facility and time")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
