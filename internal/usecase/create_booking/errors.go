package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrSlotNotAvailable возвращается, когда хотя бы один из запрошенных слотов занят
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrSlotMismatch возвращается, когда слот не относится к указанной площадке или дате
	ErrSlotMismatch = errors.New("create_booking: slot does not belong to facility or date")

	// ErrAmountMismatch возвращается, когда сумма запроса не равна сумме цен слотов
	ErrAmountMismatch = errors.New("create_booking: amount does not match slot prices")

	// ErrFacilityNotFound возвращается, когда площадка не найдена
	ErrFacilityNotFound = errors.New("create_booking: facility not found")

	// ErrFacilityMismatch возвращается, когда площадка не относится к указанным venue/partner
	ErrFacilityMismatch = errors.New("create_booking: facility does not belong to venue or partner")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
