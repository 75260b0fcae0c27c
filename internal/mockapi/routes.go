package mockapi

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) setupRoutes() {
	h := newHandlers(s.store)

	api := s.app.Group(BasePath, s.delay)
	api.Get("/config", h.config)

	authed := api.Group("", s.requireAuth)

	authed.Get("/auth/user", h.me)
	authed.Get("/auth/user/friends", h.friends)
	authed.Delete("/auth/user/friends/:id", h.unfriend)
	authed.Post("/user/:id/friendRequest", h.friendRequest)

	authed.Get("/users/:id", h.user)
	authed.Put("/users/:id", h.updateUser)

	authed.Get("/avatars", h.listAvatars)
	authed.Get("/avatars/:id", h.avatar)
	authed.Get("/worlds/:id", h.world)
	authed.Get("/instances/:location", h.instance)

	authed.Get("/favorites", h.listFavorites)
	authed.Post("/favorites", h.addFavorite)
	authed.Get("/favorites/:id", h.favorite)
	authed.Delete("/favorites/:id", h.removeFavorite)

	authed.Get("/auth/user/notifications", h.listNotifications)
	authed.Put("/auth/user/notifications/:id/accept", h.acceptNotification)
	authed.Put("/auth/user/notifications/:id/see", h.markNotification("seen"))
	authed.Put("/auth/user/notifications/:id/hide", h.markNotification("hidden"))

	authed.Get("/auth/user/playermoderations", h.listModerations)
	authed.Post("/auth/user/playermoderations", h.moderate)
	authed.Put("/auth/user/unplayermoderate", h.unmoderate)

	s.app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Endpoint Not Found")
	})
}
