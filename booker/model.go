package booker

import (
	"encoding/json"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// BookingDates is a stay window. The service is authoritative for validating the
// range; the client passes whatever it is given.
type BookingDates struct {
	CheckIn  string `json:"checkin"`
	CheckOut string `json:"checkout"`
}

// Booking is the wire representation of a booking resource.
type Booking struct {
	FirstName       string       `json:"firstname"`
	LastName        string       `json:"lastname"`
	TotalPrice      int          `json:"totalprice"`
	DepositPaid     bool         `json:"depositpaid"`
	Dates           BookingDates `json:"bookingdates"`
	AdditionalNeeds string       `json:"additionalneeds,omitempty"`
}

// BookingResult is what the service returns on creation: the server-assigned id plus
// an echo of the stored booking.
type BookingResult struct {
	ID      int     `json:"bookingid"`
	Booking Booking `json:"booking"`
}

// AuthToken is an opaque credential required by mutating booking operations. It is
// owned by the scenario that created it and passed explicitly; there is no ambient
// credential state.
type AuthToken string

// AuthResult is the outcome of an authentication attempt. The service reports a
// credential mismatch as a success-status response carrying a reason field rather
// than an HTTP error, so the two outcomes are represented as a tagged result instead
// of conflating them with transport errors.
type AuthResult struct {
	Token         AuthToken
	FailureReason string
}

// OK reports whether authentication produced a usable token.
func (r AuthResult) OK() bool {
	return r.Token != ""
}

// BookingPatch is a partial update. Only fields that were explicitly set are
// serialised, which is what makes the service's merge contract observable: omitted
// fields must come back unchanged.
type BookingPatch struct {
	FirstName       ldvalue.OptionalString
	LastName        ldvalue.OptionalString
	TotalPrice      ldvalue.OptionalInt
	DepositPaid     ldvalue.OptionalBool
	Dates           *BookingDates
	AdditionalNeeds ldvalue.OptionalString
}

func (p BookingPatch) MarshalJSON() ([]byte, error) {
	fields := make(map[string]interface{})
	if p.FirstName.IsDefined() {
		fields["firstname"] = p.FirstName.StringValue()
	}
	if p.LastName.IsDefined() {
		fields["lastname"] = p.LastName.StringValue()
	}
	if p.TotalPrice.IsDefined() {
		fields["totalprice"] = p.TotalPrice.IntValue()
	}
	if p.DepositPaid.IsDefined() {
		fields["depositpaid"] = p.DepositPaid.BoolValue()
	}
	if p.Dates != nil {
		fields["bookingdates"] = *p.Dates
	}
	if p.AdditionalNeeds.IsDefined() {
		fields["additionalneeds"] = p.AdditionalNeeds.StringValue()
	}
	return json.Marshal(fields)
}

// BookingFilter selects bookings when listing ids. Zero-valued fields are not sent.
type BookingFilter struct {
	FirstName string
	LastName  string
}
