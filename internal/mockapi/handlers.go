package mockapi

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type handlers struct {
	store    *Store
	validate *validator.Validate
}

func newHandlers(store *Store) *handlers {
	return &handlers{store: store, validate: validator.New()}
}

// bind parses and validates the JSON body into v.
func (h *handlers) bind(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func (h *handlers) config(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"clientApiKey":       "JlE5Jldo5Jibnk5O5hTx6XVqsJu4WJ26",
		"appName":            "VRChat",
		"serverName":         "vrc-mock",
		"announcements":      []any{},
		"disableEventStream": true,
		"buildVersionTag":    "mock",
		"homeWorldId":        "wrld_nest",
		"defaultAvatar":      "avtr_birb",
	})
}

func (h *handlers) me(c *fiber.Ctx) error {
	return c.JSON(h.store.Me())
}

func (h *handlers) friends(c *fiber.Ctx) error {
	return c.JSON(h.store.Friends(c.QueryBool("offline", false)))
}

func (h *handlers) unfriend(c *fiber.Ctx) error {
	if !h.store.Unfriend(c.Params("id")) {
		return fiber.NewError(fiber.StatusBadRequest, "These users are not friends")
	}
	return success(c, "Friendship destroyed")
}

func (h *handlers) friendRequest(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, ok := h.store.User(id); !ok {
		return notFound("User")
	}
	return c.JSON(h.store.AddNotification("friendRequest", id))
}

func (h *handlers) user(c *fiber.Ctx) error {
	u, ok := h.store.User(c.Params("id"))
	if !ok {
		return notFound("User")
	}
	return c.JSON(u)
}

func (h *handlers) updateUser(c *fiber.Ctx) error {
	if c.Params("id") != MeID {
		return fiber.NewError(fiber.StatusForbidden, "You can only edit your own profile")
	}
	var req updateUserRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	return c.JSON(h.store.UpdateMe(req.record()))
}

func (h *handlers) listAvatars(c *fiber.Ctx) error {
	userID := c.Query("userId")
	mine := c.Query("user") == "me"
	status := c.Query("releaseStatus", "public")

	return c.JSON(h.store.Avatars(func(a Record) bool {
		switch {
		case mine:
			return a["authorId"] == MeID && (status == "all" || a["releaseStatus"] == status)
		case userID != "":
			return a["authorId"] == userID && a["releaseStatus"] == "public"
		default:
			return a["releaseStatus"] == "public"
		}
	}))
}

func (h *handlers) avatar(c *fiber.Ctx) error {
	a, ok := h.store.Avatar(c.Params("id"))
	if !ok {
		return notFound("Avatar")
	}
	return c.JSON(a)
}

func (h *handlers) world(c *fiber.Ctx) error {
	w, ok := h.store.World(c.Params("id"))
	if !ok {
		return notFound("World")
	}
	return c.JSON(w)
}

func (h *handlers) instance(c *fiber.Ctx) error {
	location := c.Params("location")
	if !strings.Contains(location, ":") {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid instance location")
	}
	i, ok := h.store.Instance(location)
	if !ok {
		return notFound("Instance")
	}
	return c.JSON(i)
}

func (h *handlers) listFavorites(c *fiber.Ctx) error {
	return c.JSON(h.store.Favorites(c.Query("type")))
}

func (h *handlers) addFavorite(c *fiber.Ctx) error {
	var req favoriteRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	for _, f := range h.store.Favorites(req.Type) {
		if f["favoriteId"] == req.FavoriteID {
			return fiber.NewError(fiber.StatusBadRequest, "You already have that favorite")
		}
	}
	return c.JSON(h.store.AddFavorite(req.Type, req.FavoriteID, req.Tags))
}

func (h *handlers) favorite(c *fiber.Ctx) error {
	f, ok := h.store.Favorite(c.Params("id"))
	if !ok {
		return notFound("Favorite")
	}
	return c.JSON(f)
}

func (h *handlers) removeFavorite(c *fiber.Ctx) error {
	if !h.store.RemoveFavorite(c.Params("id")) {
		return notFound("Favorite")
	}
	return success(c, "Favorite removed")
}

func (h *handlers) listNotifications(c *fiber.Ctx) error {
	return c.JSON(h.store.Notifications(c.Query("type")))
}

func (h *handlers) acceptNotification(c *fiber.Ctx) error {
	if err := h.store.AcceptFriendRequest(c.Params("id")); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return success(c, "Friend request accepted")
}

// markNotification sets a boolean flag on the notification.
func (h *handlers) markNotification(field string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, ok := h.store.UpdateNotification(c.Params("id"), field, true)
		if !ok {
			return notFound("Notification")
		}
		return c.JSON(n)
	}
}

func (h *handlers) listModerations(c *fiber.Ctx) error {
	return c.JSON(h.store.Moderations(c.Query("type")))
}

func (h *handlers) moderate(c *fiber.Ctx) error {
	var req moderationRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if req.Moderated == MeID {
		return fiber.NewError(fiber.StatusBadRequest, "You can't moderate yourself")
	}
	return c.JSON(h.store.Moderate(req.Moderated, req.Type))
}

func (h *handlers) unmoderate(c *fiber.Ctx) error {
	var req moderationRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if !h.store.Unmoderate(req.Moderated, req.Type) {
		return notFound(fmt.Sprintf("Moderation %s of %s", req.Type, req.Moderated))
	}
	return success(c, "Unmoderated")
}
