package order

// NextExpectedAction is the hint shown next to an order in list and detail views.
func NextExpectedAction(s State) string {
	switch s.Status {
	case Pending:
		return "Confirm within 24 hrs"
	case Packed:
		return "Ship order"
	case Shipped:
		if s.Delivery == DeliveryFailed {
			return "Reschedule delivery"
		}
		return "Awaiting delivery confirmation"
	case Delivered:
		return "No action required"
	case Cancelled:
		return "Order cancelled"
	case Exchanged:
		return "Exchange completed"
	case StatusUnknown:
		return ""
	}
	return ""
}
