package models

// ConsentStatus is the visitor's cookie banner decision
type ConsentStatus string

const (
	ConsentUnset    ConsentStatus = "unset"
	ConsentAccepted ConsentStatus = "accepted"
	ConsentRejected ConsentStatus = "rejected"
)

// ParseConsentStatus maps a stored value to a status. Anything unknown is unset.
func ParseConsentStatus(v string) ConsentStatus {
	switch ConsentStatus(v) {
	case ConsentAccepted:
		return ConsentAccepted
	case ConsentRejected:
		return ConsentRejected
	default:
		return ConsentUnset
	}
}

// IsDecision reports whether the status is a decision the visitor can make
func (s ConsentStatus) IsDecision() bool {
	return s == ConsentAccepted || s == ConsentRejected
}

// ConsentState is the consent banner state handed to the page
type ConsentState struct {
	Status     ConsentStatus `json:"status"`
	ShowBanner bool          `json:"showBanner"`
}

// NewConsentState derives banner visibility from the stored status
func NewConsentState(status ConsentStatus) ConsentState {
	return ConsentState{Status: status, ShowBanner: status == ConsentUnset}
}
