package get_partner_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/turfbook/TurfBookingService/internal/domain"
	"github.com/turfbook/TurfBookingService/internal/service/bookings/models"
)

// parseQueryParams разбирает query-параметры фильтрации
// Поддерживаются facilityId, startDate, endDate (YYYY-MM-DD) и status
func parseQueryParams(query url.Values, userID, partnerID int64) (*models.GetPartnerBookingsRequest, error) {
	req := &models.GetPartnerBookingsRequest{
		UserID:    userID,
		PartnerID: partnerID,
	}

	if raw := query.Get("facilityId"); raw != "" {
		facilityID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || facilityID <= 0 {
			return nil, fmt.Errorf("invalid facilityId %q", raw)
		}
		req.FacilityID = &facilityID
	}

	if raw := query.Get("startDate"); raw != "" {
		startDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate %q", raw)
		}
		req.StartDate = &startDate
	}

	if raw := query.Get("endDate"); raw != "" {
		endDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate %q", raw)
		}
		req.EndDate = &endDate
	}

	if raw := query.Get("status"); raw != "" {
		req.Status = &raw
	}

	return req, nil
}
