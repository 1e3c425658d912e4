package inventory

// pending is the only non-terminal state; approved and rejected cannot be
// re-opened.
var validNext = map[RequestStatus]map[RequestStatus]bool{
	RequestPending:  {RequestApproved: true, RequestRejected: true},
	RequestApproved: {},
	RequestRejected: {},
}

func CanTransition(from, to RequestStatus) bool {
	return validNext[from][to]
}

func validStatus(s RequestStatus) bool {
	_, ok := validNext[s]
	return ok
}

func validPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
