package domain

// Slot timing constants
const (
	// SlotDurationMinutes длительность одного слота
	// Все интервалы бронирования кратны 30 минутам
	SlotDurationMinutes = 30
)

// Business validation constants
const (
	MaxSlotsPerBooking          = 16 // 8 часов одним бронированием
	MaxCancellationReasonLength = 500
	MaxCustomerNameLength       = 200
	MaxCustomerPhoneLength      = 20
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// SettledStatuses статусы бронирования с применённым исходом платежа
var SettledStatuses = []BookingStatus{
	StatusConfirmed,
	StatusFailed,
	StatusRefunded,
}

// ActiveStatuses статусы, при которых слоты бронирования заняты
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
