package service

import (
	"github.com/sirupsen/logrus"

	"github.com/Manh-Duc-NT/GoRide/internal/domain"
	"github.com/Manh-Duc-NT/GoRide/internal/realtime"
)

// NotificationService pushes ride status transitions to the parties on
// the ride through the realtime hub. Delivery is best effort: a failed
// or absent subscription never fails the transition that triggered it.
type NotificationService struct {
	hub *realtime.Hub
	log *logrus.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(hub *realtime.Hub, log *logrus.Logger) *NotificationService {
	return &NotificationService{hub: hub, log: log}
}

// RideRequested acknowledges a newly created request to the customer.
func (s *NotificationService) RideRequested(ride *domain.RideRequest) {
	s.logEvent(realtime.EventRideRequested, ride)
	s.toCustomer(ride.CustomerID, realtime.EventRideRequested, ridePayload(ride))
}

// RideAccepted tells the customer a driver is on the way.
func (s *NotificationService) RideAccepted(ride *domain.RideRequest) {
	s.logEvent(realtime.EventRideAccepted, ride)
	payload := ridePayload(ride)
	payload["driver_name"] = ride.DriverName
	payload["driver_phone"] = ride.DriverPhone
	s.toCustomer(ride.CustomerID, realtime.EventRideAccepted, payload)
}

// PickupConfirmed tells the customer the trip has started.
func (s *NotificationService) PickupConfirmed(ride *domain.RideRequest) {
	s.logEvent(realtime.EventRideOngoing, ride)
	s.toCustomer(ride.CustomerID, realtime.EventRideOngoing, ridePayload(ride))
}

// RideCompleted sends the final fare to both parties.
func (s *NotificationService) RideCompleted(ride *domain.RideRequest) {
	s.logEvent(realtime.EventRideCompleted, ride)
	payload := ridePayload(ride)
	payload["final_price"] = ride.FinalPrice
	payload["actual_distance_km"] = ride.ActualDistanceKm
	s.toCustomer(ride.CustomerID, realtime.EventRideCompleted, payload)
	s.toDriver(ride.DriverID, realtime.EventRideCompleted, payload)
}

// RideCancelled tells the party that did not cancel.
func (s *NotificationService) RideCancelled(ride *domain.RideRequest, cancelledBy string) {
	s.logEvent(realtime.EventRideCancelled, ride)
	payload := ridePayload(ride)
	payload["cancelled_by"] = cancelledBy

	if cancelledBy != ride.CustomerID {
		s.toCustomer(ride.CustomerID, realtime.EventRideCancelled, payload)
	}
	if ride.DriverID != "" && cancelledBy != ride.DriverID {
		s.toDriver(ride.DriverID, realtime.EventRideCancelled, payload)
	}
}

func (s *NotificationService) toCustomer(customerID, event string, payload map[string]any) {
	if s.hub == nil || customerID == "" {
		return
	}
	s.hub.NotifyCustomer(customerID, event, payload)
}

func (s *NotificationService) toDriver(driverID, event string, payload map[string]any) {
	if s.hub == nil || driverID == "" {
		return
	}
	s.hub.NotifyDriver(driverID, event, payload)
}

func (s *NotificationService) logEvent(event string, ride *domain.RideRequest) {
	if s.log == nil {
		return
	}
	s.log.WithFields(logrus.Fields{
		"event":   event,
		"ride_id": ride.ID,
		"status":  ride.Status,
	}).Info("ride event")
}

func ridePayload(ride *domain.RideRequest) map[string]any {
	return map[string]any{
		"ride_id": ride.ID,
		"status":  string(ride.Status),
	}
}
