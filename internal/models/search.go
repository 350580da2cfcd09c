package models

// TrainSearchResult is one train serving a requested segment on a date.
type TrainSearchResult struct {
	TrainNumber   string       `json:"train_number"`
	TrainName     string       `json:"train_name"`
	TrainType     string       `json:"train_type"`
	SourceCode    string       `json:"source_station"`
	Departure     *string      `json:"departure_time"`
	Destination   string       `json:"destination_station"`
	Arrival       *string      `json:"arrival_time"`
	DistanceKm    float64      `json:"distance_km"`
	Classes       []TrainClass `json:"classes"`
}

// SeatAvailability summarizes the inventory of one train/class/date segment.
type SeatAvailability struct {
	TrainNumber    string `json:"train_number"`
	ClassType      string `json:"class_type"`
	TravelDate     string `json:"travel_date"`
	SeatCapacity   int    `json:"seat_capacity"`
	BookedSeats    int    `json:"booked_seats"`
	AvailableSeats int    `json:"available_seats"`
	RACPassengers  int    `json:"rac_passengers"`
	Waitlisted     int    `json:"waitlisted_passengers"`
}

// CancellationResult reports the outcome of a booking cancellation.
type CancellationResult struct {
	PNR           string  `json:"pnr_number"`
	RefundPercent int     `json:"refund_percent"`
	RefundAmount  float64 `json:"refund_amount"`
}
