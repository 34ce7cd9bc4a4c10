package venueservice

// Facility модель площадки из VenueService
type Facility struct {
	ID         int64   `json:"id"`
	VenueID    int64   `json:"venue_id"`
	PartnerID  int64   `json:"partner_id"`
	Name       string  `json:"name"`
	ActivityID int64   `json:"activity_id"`
	BasePrice  float64 `json:"base_price"`
	IsActive   bool    `json:"is_active"`
}

// ErrorResponse модель ошибки от VenueService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
