package timeentry

// ValidateTransition checks a review status change.
// draft → submitted → approved | rejected, nothing else.
func ValidateTransition(from, to Status) error {
	switch from {
	case StatusDraft:
		if to == StatusSubmitted {
			return nil
		}
	case StatusSubmitted:
		if to == StatusApproved || to == StatusRejected {
			return nil
		}
	}
	return ErrInvalidTransition
}
