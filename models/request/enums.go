package request

// RequestStatus is the customer request lifecycle status.
type RequestStatus string

const (
	RequestStatusNew      RequestStatus = "new"
	RequestStatusProposed RequestStatus = "proposed"
	RequestStatusBooked   RequestStatus = "booked"
	RequestStatusExpired  RequestStatus = "expired"
)

func (rs RequestStatus) String() string {
	return string(rs)
}

func (rs RequestStatus) IsValid() bool {
	switch rs {
	case RequestStatusNew, RequestStatusProposed, RequestStatusBooked, RequestStatusExpired:
		return true
	default:
		return false
	}
}

// CanBeBooked returns true if a payment confirmation may convert this
// request into a booking.
func (rs RequestStatus) CanBeBooked() bool {
	return rs == RequestStatusProposed
}
