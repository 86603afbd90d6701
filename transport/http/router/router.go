package router

import (
	"net/http"

	"casa/internal/handlers/auth"
	"casa/internal/handlers/blockeddate"
	"casa/internal/handlers/booking"
	"casa/internal/handlers/house"
	"casa/transport/http/middleware"
	"casa/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth        auth.Handler
	House       house.Handler
	Booking     booking.Handler
	BlockedDate blockeddate.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AppMiddleware  middleware.AppMiddleware
	AuthMiddleware middleware.AuthRole
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(r.AppMiddleware.Tracing)
	router.Use(r.AppMiddleware.CORS)
	router.Use(r.AppMiddleware.RateLimit())

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.WithMessage(w, http.StatusOK, "OK")
	})

	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.House.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)

		routerGroup.Route("/admin", func(adminGroup chi.Router) {
			adminGroup.Use(r.AuthMiddleware.Auth)
			adminGroup.Use(r.AuthMiddleware.RBAC)

			r.DomainHandlers.Auth.Router(adminGroup)
			r.DomainHandlers.Booking.AdminRouter(adminGroup)

			adminGroup.Route("/houses", func(housesGroup chi.Router) {
				r.DomainHandlers.House.AdminRouter(housesGroup)
				r.DomainHandlers.BlockedDate.Router(housesGroup)
			})
		})
	})
}

func New(domainHandlers DomainHandlers, appMiddleware middleware.AppMiddleware, authMiddleware middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AppMiddleware:  appMiddleware,
		AuthMiddleware: authMiddleware,
	}
}
