package dto

type CreateBookingRequest struct {
	ClientID    string  `json:"client_id" binding:"required"`
	ClientName  string  `json:"client_name" binding:"required"`
	ClientPhone string  `json:"client_phone" binding:"required"`
	ServiceType string  `json:"service_type" binding:"required"`
	Date        string  `json:"date" binding:"required"`       // YYYY-MM-DD
	StartTime   string  `json:"start_time" binding:"required"` // HH:MM
	EndTime     string  `json:"end_time" binding:"required"`   // HH:MM
	Duration    int     `json:"duration"`
	Price       float64 `json:"price"`
	Notes       string  `json:"notes"`

	PaymentID     string `json:"payment_id"`
	PaymentStatus string `json:"payment_status"`
}

type BookingCreatedResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
