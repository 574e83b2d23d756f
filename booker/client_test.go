package booker_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/retailqa/storefront-contract-tests/booker"
	"github.com/retailqa/storefront-contract-tests/booker/fakebooker"
)

const (
	testUsername = "admin"
	testPassword = "password123"
)

func sampleBooking() booker.Booking {
	return booker.Booking{
		FirstName:   "John",
		LastName:    "Doe",
		TotalPrice:  150,
		DepositPaid: true,
		Dates: booker.BookingDates{
			CheckIn:  "2024-01-01",
			CheckOut: "2024-01-05",
		},
		AdditionalNeeds: "Breakfast",
	}
}

func withFakeService(t *testing.T, action func(*booker.Client, *fakebooker.Service)) {
	service := fakebooker.New(testUsername, testPassword)
	server := httptest.NewServer(service.Handler())
	defer server.Close()
	action(booker.NewClient(server.URL, nil, nil), service)
}

func withHandler(t *testing.T, handler http.Handler, action func(*booker.Client)) {
	server := httptest.NewServer(handler)
	defer server.Close()
	action(booker.NewClient(server.URL, nil, nil))
}

func requireToken(t *testing.T, client *booker.Client) booker.AuthToken {
	result, err := client.Authenticate(context.Background(), testUsername, testPassword)
	require.NoError(t, err)
	require.True(t, result.OK())
	return result.Token
}

func jsonHeaders() http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	return h
}

func TestHealthCheckTrueOnLivenessStatus(t *testing.T) {
	withFakeService(t, func(client *booker.Client, _ *fakebooker.Service) {
		assert.True(t, client.HealthCheck(context.Background()))
	})
}

func TestHealthCheckFalseOnOtherStatus(t *testing.T) {
	// A plain 200 is not the liveness answer this service gives.
	withHandler(t, httphelpers.HandlerWithStatus(200), func(client *booker.Client) {
		assert.False(t, client.HealthCheck(context.Background()))
	})
}

func TestHealthCheckFalseWhenUnreachable(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(201))
	server.Close()
	client := booker.NewClient(server.URL, nil, nil)
	assert.False(t, client.HealthCheck(context.Background()))
}

func TestAuthenticateReturnsToken(t *testing.T) {
	withFakeService(t, func(client *booker.Client, _ *fakebooker.Service) {
		result, err := client.Authenticate(context.Background(), testUsername, testPassword)
		require.NoError(t, err)
		assert.True(t, result.OK())
		assert.NotEmpty(t, result.Token)
		assert.Empty(t, result.FailureReason)
	})
}

func TestAuthenticateBadCredentialsIsNotATransportError(t *testing.T) {
	withFakeService(t, func(client *booker.Client, _ *fakebooker.Service) {
		result, err := client.Authenticate(context.Background(), "wrong", "credentials")
		require.NoError(t, err)
		assert.False(t, result.OK())
		assert.Empty(t, result.Token)
		assert.Equal(t, "Bad credentials", result.FailureReason)
	})
}

func TestAuthenticateRejectsPayloadWithNeitherTokenNorReason(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(200, jsonHeaders(), []byte(`{"something":"else"}`))
	withHandler(t, handler, func(client *booker.Client) {
		_, err := client.Authenticate(context.Background(), testUsername, testPassword)
		var authErr booker.AuthenticationError
		require.ErrorAs(t, err, &authErr)
		assert.Contains(t, authErr.Body, "something")
	})
}

func TestAuthenticateRejectsErrorStatus(t *testing.T) {
	withHandler(t, httphelpers.HandlerWithStatus(500), func(client *booker.Client) {
		_, err := client.Authenticate(context.Background(), testUsername, testPassword)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})
}

func TestCreateBookingReturnsAssignedIDAndStoredData(t *testing.T) {
	withFakeService(t, func(client *booker.Client, _ *fakebooker.Service) {
		result, err := client.CreateBooking(context.Background(), sampleBooking())
		require.NoError(t, err)
		assert.Greater(t, result.ID, 0)
		assert.Equal(t, sampleBooking(), result.Booking)
	})
}

func TestGetBookingReturnsCreatedData(t *testing.T) {
	withFakeService(t, func(client *booker.Client, _ *fakebooker.Service) {
		created, err := client.CreateBooking(context.Background(), sampleBooking())
		require.NoError(t, err)

		fetched, err := client.GetBooking(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, sampleBooking(), fetched)
	})
}

func TestGetBookingAbsentID(t *testing.T) {
	withFakeService(t, func(client *booker.Client, _ *fakebooker.Service) {
		_, err := client.GetBooking(context.Background(), 99999)
		var notFound booker.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, 99999, notFound.ID)
	})
}

func TestListBookingIDsWithFilter(t *testing.T) {
	withFakeService(t, func(client *booker.Client, _ *fakebooker.Service) {
		first, err := client.CreateBooking(context.Background(), sampleBooking())
		require.NoError(t, err)
		other := sampleBooking()
		other.FirstName = "Jane"
		second, err := client.CreateBooking(context.Background(), other)
		require.NoError(t, err)

		all, err := client.ListBookingIDs(context.Background(), booker.BookingFilter{})
		require.NoError(t, err)
		assert.ElementsMatch(t, []int{first.ID, second.ID}, all)

		janes, err := client.ListBookingIDs(context.Background(), booker.BookingFilter{FirstName: "Jane"})
		require.NoError(t, err)
		assert.Equal(t, []int{second.ID}, janes)
	})
}

func TestUpdateBookingReplacesEveryField(t *testing.T) {
	withFakeService(t, func(client *booker.Client, _ *fakebooker.Service) {
		token := requireToken(t, client)
		created, err := client.CreateBooking(context.Background(), sampleBooking())
		require.NoError(t, err)

		replacement := booker.Booking{
			FirstName:   "Jane",
			LastName:    "Smith",
			TotalPrice:  500,
			DepositPaid: false,
			Dates:       booker.BookingDates{CheckIn: "2024-02-01", CheckOut: "2024-02-03"},
		}
		updated, err := client.UpdateBooking(context.Background(), created.ID, replacement, token)
		require.NoError(t, err)
		assert.Equal(t, replacement, updated)

		fetched, err := client.GetBooking(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, replacement, fetched)
	})
}

func TestUpdateBookingWithoutTokenIsRejected(t *testing.T) {
	withFakeService(t, func(client *booker.Client, _ *fakebooker.Service) {
		created, err := client.CreateBooking(context.Background(), sampleBooking())
		require.NoError(t, err)

		_, err = client.UpdateBooking(context.Background(), created.ID, sampleBooking(), "")
		var authz booker.AuthorizationError
		require.ErrorAs(t, err, &authz)
		assert.Equal(t, created.ID, authz.ID)
	})
}

func TestPatchBookingChangesOnlyDefinedFields(t *testing.T) {
	withFakeService(t, func(client *booker.Client, _ *fakebooker.Service) {
		token := requireToken(t, client)
		created, err := client.CreateBooking(context.Background(), sampleBooking())
		require.NoError(t, err)

		patch := booker.BookingPatch{
			FirstName:  ldvalue.NewOptionalString("Janet"),
			TotalPrice: ldvalue.NewOptionalInt(999),
		}
		patched, err := client.PatchBooking(context.Background(), created.ID, patch, token)
		require.NoError(t, err)

		expected := sampleBooking()
		expected.FirstName = "Janet"
		expected.TotalPrice = 999
		assert.Equal(t, expected, patched)
	})
}

func TestPatchBookingAbsentID(t *testing.T) {
	withFakeService(t, func(client *booker.Client, _ *fakebooker.Service) {
		token := requireToken(t, client)
		_, err := client.PatchBooking(context.Background(), 99999,
			booker.BookingPatch{FirstName: ldvalue.NewOptionalString("x")}, token)
		var notFound booker.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func TestDeleteBookingRemovesIt(t *testing.T) {
	withFakeService(t, func(client *booker.Client, service *fakebooker.Service) {
		token := requireToken(t, client)
		created, err := client.CreateBooking(context.Background(), sampleBooking())
		require.NoError(t, err)

		require.NoError(t, client.DeleteBooking(context.Background(), created.ID, token))
		assert.Equal(t, 0, service.BookingCount())

		_, err = client.GetBooking(context.Background(), created.ID)
		var notFound booker.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestDeleteBookingTwiceReportsNotFound(t *testing.T) {
	withFakeService(t, func(client *booker.Client, _ *fakebooker.Service) {
		token := requireToken(t, client)
		created, err := client.CreateBooking(context.Background(), sampleBooking())
		require.NoError(t, err)

		require.NoError(t, client.DeleteBooking(context.Background(), created.ID, token))
		err = client.DeleteBooking(context.Background(), created.ID, token)
		var notFound booker.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestDeleteBookingWithoutTokenIsRejected(t *testing.T) {
	withFakeService(t, func(client *booker.Client, service *fakebooker.Service) {
		created, err := client.CreateBooking(context.Background(), sampleBooking())
		require.NoError(t, err)

		err = client.DeleteBooking(context.Background(), created.ID, "")
		var authz booker.AuthorizationError
		require.ErrorAs(t, err, &authz)
		assert.Equal(t, 1, service.BookingCount())
	})
}

func TestMutationSendsTokenAsCookie(t *testing.T) {
	bookingJSON, _ := json.Marshal(sampleBooking())
	handler, requestsCh := httphelpers.RecordingHandler(
		httphelpers.HandlerWithResponse(200, jsonHeaders(), bookingJSON))
	withHandler(t, handler, func(client *booker.Client) {
		_, err := client.UpdateBooking(context.Background(), 1, sampleBooking(), "abc123")
		require.NoError(t, err)
		info := <-requestsCh
		assert.Equal(t, "PUT", info.Request.Method)
		assert.Equal(t, "token=abc123", info.Request.Header.Get("Cookie"))
		assert.Equal(t, "application/json", info.Request.Header.Get("Content-Type"))
	})
}

func TestTransportFailureIsWrapped(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(200))
	server.Close()
	client := booker.NewClient(server.URL, nil, nil)
	_, err := client.GetBooking(context.Background(), 1)
	var transport booker.TransportUnavailableError
	require.ErrorAs(t, err, &transport)
	assert.NotNil(t, errors.Unwrap(transport))
}

func TestBaseURLTrailingSlashIsAccepted(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(201))
	server := httptest.NewServer(handler)
	defer server.Close()
	client := booker.NewClient(server.URL+"/", nil, nil)
	assert.True(t, client.HealthCheck(context.Background()))
	info := <-requestsCh
	assert.Equal(t, "/ping", info.Request.URL.Path)
}
