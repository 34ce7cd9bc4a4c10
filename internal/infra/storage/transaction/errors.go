package transaction

import "errors"

var (
	// ErrRecordNotFound возвращается, когда запись по order_id не найдена
	ErrRecordNotFound = errors.New("transaction.repository: record not found")

	// ErrDuplicateOrder возвращается при повторной вставке того же order_id
	ErrDuplicateOrder = errors.New("transaction.repository: duplicate order id")

	// ErrAlreadyCaptured возвращается, когда запись уже имеет терминальный
	// статус захвата (повторное уведомление шлюза - идемпотентный no-op)
	ErrAlreadyCaptured = errors.New("transaction.repository: order already captured")

	// ErrNotRefundable возвращается при попытке пометить возврат по незахваченной записи
	ErrNotRefundable = errors.New("transaction.repository: order is not refundable")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("transaction.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("transaction.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("transaction.repository: failed to scan row")
)
