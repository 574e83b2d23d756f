package apitests

import (
	"errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/retailqa/storefront-contract-tests/booker"
	"github.com/retailqa/storefront-contract-tests/fixtures"
)

func doCreateBookingScenario(t *T) {
	data := fixtures.SampleBookings.Default
	data.FirstName = fixtures.UniqueName("Create")

	result := t.CreateBooking(data)

	assert.Greater(t, result.ID, 0, "expected a server-assigned id")
	assert.Equal(t, data, result.Booking)
}

func doGetAfterCreateScenario(t *T) {
	data := fixtures.SampleBookings.Default
	data.FirstName = fixtures.UniqueName("Get")

	created := t.CreateBooking(data)
	retrieved, err := t.Client().GetBooking(t.Context(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, data.FirstName, retrieved.FirstName)
	assert.Equal(t, data.LastName, retrieved.LastName)
	assert.Equal(t, data.TotalPrice, retrieved.TotalPrice)
	assert.Equal(t, data.DepositPaid, retrieved.DepositPaid)
	assert.Equal(t, data.Dates, retrieved.Dates)
}

func doUpdateBookingScenario(t *T) {
	token := t.RequireToken()

	initial := fixtures.SampleBookings.Default
	initial.FirstName = fixtures.UniqueName("Initial")
	created := t.CreateBooking(initial)

	replacement := booker.Booking{
		FirstName:       fixtures.UniqueName("Updated"),
		LastName:        "NewLastName",
		TotalPrice:      999,
		DepositPaid:     false,
		Dates:           booker.BookingDates{CheckIn: "2024-12-01", CheckOut: "2024-12-10"},
		AdditionalNeeds: "Updated needs",
	}
	updated, err := t.Client().UpdateBooking(t.Context(), created.ID, replacement, token)
	require.NoError(t, err)
	assert.Equal(t, replacement, updated)

	retrieved, err := t.Client().GetBooking(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, replacement, retrieved)
}

func doPatchBookingScenario(t *T) {
	token := t.RequireToken()

	initial := fixtures.SampleBookings.Default
	initial.FirstName = fixtures.UniqueName("PatchTest")
	initial.LastName = "OriginalLast"
	created := t.CreateBooking(initial)

	newFirstName := fixtures.UniqueName("PartiallyUpdated")
	patched, err := t.Client().PatchBooking(t.Context(), created.ID, booker.BookingPatch{
		FirstName:  ldvalue.NewOptionalString(newFirstName),
		TotalPrice: ldvalue.NewOptionalInt(777),
	}, token)
	require.NoError(t, err)

	assert.Equal(t, newFirstName, patched.FirstName)
	assert.Equal(t, 777, patched.TotalPrice)

	// The contract under test: omitted fields must come back unchanged.
	assert.Equal(t, initial.LastName, patched.LastName)
	assert.Equal(t, initial.DepositPaid, patched.DepositPaid)
	assert.Equal(t, initial.Dates, patched.Dates)
	assert.Equal(t, initial.AdditionalNeeds, patched.AdditionalNeeds)
}

func doDeleteBookingScenario(t *T) {
	token := t.RequireToken()

	data := fixtures.SampleBookings.Default
	data.FirstName = fixtures.UniqueName("DeleteTest")
	created := t.CreateBooking(data)

	require.NoError(t, t.Client().DeleteBooking(t.Context(), created.ID, token))

	_, err := t.Client().GetBooking(t.Context(), created.ID)
	var notFound booker.NotFoundError
	require.True(t, errors.As(err, &notFound), "expected NotFoundError after delete, got %v", err)

	// Deleting again reports a failure outcome rather than crashing; teardown relies
	// on this being non-fatal.
	err = t.Client().DeleteBooking(t.Context(), created.ID, token)
	assert.True(t, errors.As(err, &notFound), "expected NotFoundError from repeated delete, got %v", err)
}

func doIndependentBookingsScenario(t *T) {
	first := fixtures.SampleBookings.Default
	first.FirstName = fixtures.UniqueName("Multi1")
	second := fixtures.SampleBookings.Extended
	second.FirstName = fixtures.UniqueName("Multi2")
	third := fixtures.SampleBookings.Minimal
	third.FirstName = fixtures.UniqueName("Multi3")

	created1 := t.CreateBooking(first)
	created2 := t.CreateBooking(second)
	created3 := t.CreateBooking(third)

	assert.NotEqual(t, created1.ID, created2.ID)
	assert.NotEqual(t, created2.ID, created3.ID)
	assert.NotEqual(t, created1.ID, created3.ID)

	retrieved1, err := t.Client().GetBooking(t.Context(), created1.ID)
	require.NoError(t, err)
	retrieved2, err := t.Client().GetBooking(t.Context(), created2.ID)
	require.NoError(t, err)
	retrieved3, err := t.Client().GetBooking(t.Context(), created3.ID)
	require.NoError(t, err)

	assert.Equal(t, first.FirstName, retrieved1.FirstName)
	assert.Equal(t, second.FirstName, retrieved2.FirstName)
	assert.Equal(t, third.FirstName, retrieved3.FirstName)
}
