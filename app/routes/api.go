// Package routes registers the commandes API surface.
package routes

import (
	"encoding/json"
	"time"

	"github.com/kdiomande/maillots/app/controllers"
	"github.com/kdiomande/maillots/app/models"
	"github.com/kdiomande/maillots/app/services"
	"github.com/kdiomande/maillots/pkg/event"
	"github.com/kdiomande/maillots/pkg/metrics"
	"github.com/kdiomande/maillots/pkg/middleware"
	"github.com/kdiomande/maillots/pkg/router"
	"github.com/kdiomande/maillots/pkg/ws"
)

// Deps carries the wired services so tests can register the same routes on
// stub-backed services.
type Deps struct {
	Orders *services.OrderService
	Auth   *services.AuthService
	Hub    *ws.Hub // nil disables the live feed
}

// RegisterAPI mounts every route of the public contract plus /metrics.
func RegisterAPI(r *router.Router, deps Deps) {
	orderController := controllers.NewOrderController(deps.Orders)
	authController := controllers.NewAuthController(deps.Auth)

	r.Get("/", "health", orderController.Health)
	r.Get("/metrics", "metrics", metrics.Handler())

	r.Post("/admin/login", "admin.login", authController.Login,
		middleware.RateLimit(10, time.Minute))

	r.Post("/commandes", "commandes.submit", orderController.Submit)

	admin := r.Group("/commandes", middleware.Auth)
	admin.Get("", "commandes.list", orderController.List)
	admin.Patch("/{id}/livrer", "commandes.deliver", orderController.Deliver)
	admin.Patch("/{id}/nonlivrer", "commandes.undeliver", orderController.Undeliver)
	admin.Delete("/{id}", "commandes.delete", orderController.Delete)

	if deps.Hub != nil {
		streamController := controllers.NewStreamController(deps.Hub)
		// Auth happens inside the handler: the handshake may carry the
		// token as a query parameter instead of a header.
		r.Get("/commandes/stream", "commandes.stream", streamController.Feed)

		event.Listen(services.OrderCreated, func(payload interface{}) {
			order, ok := payload.(models.Order)
			if !ok {
				return
			}
			if data, err := json.Marshal(order); err == nil {
				deps.Hub.Broadcast <- data
			}
		})
	}
}
