package service

import "errors"

var (
	// ErrInvalidCustomerID is returned when a customer ID is empty.
	ErrInvalidCustomerID = errors.New("invalid customer id")

	// ErrInvalidRideID is returned when a ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidDriverID is returned when a driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidPickupLocation is returned when pickup coordinates are invalid.
	ErrInvalidPickupLocation = errors.New("invalid pickup location")

	// ErrInvalidDropoffLocation is returned when dropoff coordinates are invalid.
	ErrInvalidDropoffLocation = errors.New("invalid dropoff location")

	// ErrInvalidLocation is returned when location coordinates are invalid.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidServiceClass is returned when the service class is not
	// in the pricing table.
	ErrInvalidServiceClass = errors.New("invalid service class")

	// ErrInvalidName is returned when a registration name is empty.
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidPhone is returned when a registration phone is empty.
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrPhoneAlreadyRegistered is returned when a registration reuses
	// an existing phone number.
	ErrPhoneAlreadyRegistered = errors.New("phone number already registered")

	// ErrInvalidVerificationStatus is returned for an unknown
	// verification status value.
	ErrInvalidVerificationStatus = errors.New("invalid verification status")

	// ErrInvalidRating is returned when a rating is outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrCustomerHasOpenRide is returned when a customer requests a
	// ride while another one of theirs is still pending or active.
	ErrCustomerHasOpenRide = errors.New("customer already has an open ride")

	// ErrDriverHasActiveRide is returned when a driver tries to accept
	// a ride while already serving one.
	ErrDriverHasActiveRide = errors.New("driver already has an active ride")

	// ErrDriverNotEligible is returned when a driver fails the
	// verification, blocking, presence or vehicle-class checks.
	// Terminal for the request; retrying cannot help.
	ErrDriverNotEligible = errors.New("driver not eligible")

	// ErrRideAlreadyTaken is returned to the losers of a concurrent
	// acceptance race. Callers should re-fetch the candidate list and
	// try a different ride, not retry this one.
	ErrRideAlreadyTaken = errors.New("ride already taken by another driver")

	// ErrInvalidTransition is returned when an operation is attempted
	// from a ride state that does not permit it.
	ErrInvalidTransition = errors.New("invalid ride state transition")

	// ErrDriverNotAssigned is returned when a driver operates on a ride
	// assigned to someone else.
	ErrDriverNotAssigned = errors.New("driver not assigned to this ride")

	// ErrNotRideCustomer is returned when someone other than the ride's
	// customer tries to rate it.
	ErrNotRideCustomer = errors.New("only the ride's customer may rate it")

	// ErrRideAlreadyRated is returned on a duplicate rating attempt.
	// The first rating stands; this is a rejection, not a silent no-op,
	// so callers can explain it.
	ErrRideAlreadyRated = errors.New("ride already rated")

	// ErrUpstreamUnavailable is returned when a dependency (geocoding,
	// storage) failed or timed out. Read-only callers may retry with
	// backoff; conditional writes must re-check state first.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)
