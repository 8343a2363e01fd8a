package workers

import (
	"context"
	"fmt"
	"strings"

	"bway/internal/models"
	"bway/internal/queue"
	"bway/internal/repositories/interfaces"
	"bway/internal/services"
	"bway/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const WorkerRouteAssignment = "routeAssignment"

// RouteAssignmentHandler consumes ROUTE_ASSIGNMENT messages: it resolves the
// order's delivery address against the active routes and either adds a stop
// to the best match or creates a fresh route, then links the order to it.
type RouteAssignmentHandler struct {
	orders        interfaces.OrderRepository
	users         interfaces.UserRepository
	matcher       *services.MatchingService
	sink          services.EventSink
	pickupAddress string
	logger        *logger.Logger
}

func NewRouteAssignmentHandler(
	orders interfaces.OrderRepository,
	users interfaces.UserRepository,
	matcher *services.MatchingService,
	sink services.EventSink,
	pickupAddress string,
	log *logger.Logger,
) *RouteAssignmentHandler {
	return &RouteAssignmentHandler{
		orders:        orders,
		users:         users,
		matcher:       matcher,
		sink:          sink,
		pickupAddress: pickupAddress,
		logger:        log.WithWorker(WorkerRouteAssignment),
	}
}

// NewRouteAssignmentWorker wraps the handler in a polling worker.
func NewRouteAssignmentWorker(config Config, transport queue.Transport, handler *RouteAssignmentHandler, log *logger.Logger) *Worker {
	config.Name = WorkerRouteAssignment
	return NewWorker(config, transport, handler.Handle, log)
}

func (h *RouteAssignmentHandler) Handle(ctx context.Context, msg queue.Message) error {
	body, err := models.ParseMessageBody(msg.Body)
	if err != nil {
		return err
	}
	m, ok := body.(*models.RouteAssignmentMessage)
	if !ok {
		return fmt.Errorf("%w: unexpected message type %s", models.ErrValidation, body.MessageType())
	}

	orderID, err := primitive.ObjectIDFromHex(m.OrderDbID)
	if err != nil {
		return fmt.Errorf("%w: invalid orderDbId %q", models.ErrValidation, m.OrderDbID)
	}

	log := h.logger.WithOrderID(m.OrderID)
	log.Info("Processing route assignment")

	order, err := h.orders.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to load order %s: %w", m.OrderID, err)
	}

	// Redelivered message after a crash between AssignRoute and ack.
	if order.Route != nil {
		log.WithRouteID(order.Route.Hex()).Info("Order already has a route, skipping")
		return nil
	}

	deliveryAddress := formatLocationAddress(m.DeliveryLocation)
	if deliveryAddress == "" {
		deliveryAddress = order.DeliveryLocation
	}
	if deliveryAddress == "" {
		return fmt.Errorf("%w: order %s has no delivery address", models.ErrValidation, m.OrderID)
	}

	stopName := h.resolveHospitalName(ctx, order, m)

	assignment, err := h.matcher.FindOrCreateRouteForDelivery(
		ctx, h.pickupAddress, deliveryAddress, stopName, deliveryAddress,
		services.DefaultDeliveryMaxDistanceKm,
	)
	if err != nil {
		return fmt.Errorf("failed to resolve route for order %s: %w", m.OrderID, err)
	}
	if assignment.Route == nil {
		return fmt.Errorf("no route found or created for order %s", m.OrderID)
	}

	if err := h.orders.AssignRoute(ctx, orderID, assignment.Route.ID); err != nil {
		return fmt.Errorf("failed to assign route to order %s: %w", m.OrderID, err)
	}

	log.WithFields(map[string]interface{}{
		"route_id":    assignment.Route.ID.Hex(),
		"route_name":  assignment.Route.RouteName,
		"created":     assignment.Created,
		"stop_added":  assignment.StopAdded,
		"match_score": assignment.MatchScore,
		"delivery_km": assignment.DeliveryDistanceKm,
	}).Info("Route assigned")

	if err := h.sink.Emit(ctx, services.EventRouteAssigned, map[string]interface{}{
		"orderId":    m.OrderID,
		"userId":     m.UserID,
		"routeId":    assignment.Route.ID.Hex(),
		"routeName":  assignment.Route.RouteName,
		"created":    assignment.Created,
		"matchScore": assignment.MatchScore,
	}); err != nil {
		log.WithError(err).Warn("Failed to emit route assignment event")
	}

	return nil
}

// resolveHospitalName prefers the explicit name on the message, then the
// ordering user's account name, then a stable placeholder derived from the
// user id.
func (h *RouteAssignmentHandler) resolveHospitalName(ctx context.Context, order *models.Order, m *models.RouteAssignmentMessage) string {
	if m.HospitalName != "" {
		return m.HospitalName
	}

	if user, err := h.users.GetByID(ctx, order.User); err == nil && user.Name != "" {
		return user.Name
	}

	suffix := m.UserID
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return "Hospital-" + suffix
}

// formatLocationAddress flattens a structured location into the single-line
// form the geocoders take.
func formatLocationAddress(loc models.Location) string {
	parts := make([]string, 0, 3)
	if loc.Address != "" {
		parts = append(parts, loc.Address)
	}
	if loc.City != "" {
		parts = append(parts, loc.City)
	}
	tail := strings.TrimSpace(loc.State + " " + loc.Zipcode)
	if tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, ", ")
}
