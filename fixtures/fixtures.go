// Package fixtures holds shared test data for the UI and API scenarios.
package fixtures

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/retailqa/storefront-contract-tests/booker"
)

type Credentials struct {
	Username string
	Password string
}

// StorefrontUsers are the accounts the demo storefront ships with. They all share
// one password; "Locked" is permanently locked out and is used for the failed
// sign-in scenarios.
var StorefrontUsers = struct {
	Standard    Credentials
	Locked      Credentials
	Problem     Credentials
	Performance Credentials
}{
	Standard:    Credentials{Username: "standard_user", Password: "secret_sauce"},
	Locked:      Credentials{Username: "locked_out_user", Password: "secret_sauce"},
	Problem:     Credentials{Username: "problem_user", Password: "secret_sauce"},
	Performance: Credentials{Username: "performance_glitch_user", Password: "secret_sauce"},
}

// SampleBookings are baseline booking payloads. Scenarios overwrite the name fields
// with UniqueName so that concurrent runs never collide on data.
var SampleBookings = struct {
	Default  booker.Booking
	Extended booker.Booking
	Minimal  booker.Booking
}{
	Default: booker.Booking{
		FirstName:       "John",
		LastName:        "Doe",
		TotalPrice:      150,
		DepositPaid:     true,
		Dates:           booker.BookingDates{CheckIn: "2024-01-01", CheckOut: "2024-01-05"},
		AdditionalNeeds: "Breakfast",
	},
	Extended: booker.Booking{
		FirstName:       "Jane",
		LastName:        "Smith",
		TotalPrice:      500,
		DepositPaid:     false,
		Dates:           booker.BookingDates{CheckIn: "2024-03-15", CheckOut: "2024-03-30"},
		AdditionalNeeds: "Late checkout",
	},
	Minimal: booker.Booking{
		FirstName:   "Bob",
		LastName:    "Wilson",
		TotalPrice:  100,
		DepositPaid: true,
		Dates:       booker.BookingDates{CheckIn: "2024-02-10", CheckOut: "2024-02-11"},
	},
}

// UniqueName produces a name that is unique across concurrently running scenarios
// and across harness runs targeting the same shared environment. Isolation against
// the shared remote store is achieved by unique data, not by coordination.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), uuid.NewString()[:8])
}

var firstNames = []string{"Alice", "Bob", "Charlie", "Diana", "Edward"}
var lastNames = []string{"Smith", "Johnson", "Williams", "Brown", "Jones"}
var additionalNeeds = []string{"Breakfast", "Late checkout", "Early checkin", "Parking", ""}

// RandomBooking generates a booking with a stay in the near future and a unique
// first name.
func RandomBooking() booker.Booking {
	checkIn := time.Now().AddDate(0, 0, rand.Intn(30)+1)
	checkOut := checkIn.AddDate(0, 0, rand.Intn(10)+1)
	return booker.Booking{
		FirstName:       UniqueName(firstNames[rand.Intn(len(firstNames))]),
		LastName:        lastNames[rand.Intn(len(lastNames))],
		TotalPrice:      rand.Intn(500) + 100,
		DepositPaid:     rand.Intn(2) == 0,
		Dates:           booker.BookingDates{CheckIn: checkIn.Format("2006-01-02"), CheckOut: checkOut.Format("2006-01-02")},
		AdditionalNeeds: additionalNeeds[rand.Intn(len(additionalNeeds))],
	}
}
