package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gracechapel/ministry-api/internal/api/handlers"
	"github.com/gracechapel/ministry-api/internal/api/middleware"
	"github.com/gracechapel/ministry-api/internal/models"
)

// Handlers groups every route handler mounted by Register.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Users        *handlers.UserHandler
	Permissions  *handlers.PermissionHandler
	Activity     *handlers.ActivityHandler
	Accounts     *handlers.SocialAccountHandler
	Posts        *handlers.PostHandler
	Analytics    *handlers.AnalyticsHandler
	Followers    *handlers.FollowerHandler
	Families     *handlers.FamilyHandler
	PrayerPoints *handlers.PrayerPointHandler
	Notes        *handlers.NoteHandler
	Blogs        *handlers.BlogHandler
	Events       *handlers.EventHandler
	Team         *handlers.TeamHandler
	Prophecy     *handlers.ProphecyHandler
	Media        *handlers.MediaHandler
	Gallery      *handlers.MediaHandler
	Settings     *handlers.SettingsHandler
	Public       *handlers.PublicHandler
}

type crudRoutes interface {
	List(c *fiber.Ctx) error
	Get(c *fiber.Ctx) error
	Create(c *fiber.Ctx) error
	Update(c *fiber.Ctx) error
	Remove(c *fiber.Ctx) error
}

// Register mounts the API on app. Nil handlers are skipped so tests can
// mount a subset.
func Register(app *fiber.App, gate *middleware.Gate, limiter *middleware.LoginLimiter, h Handlers) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	if h.Auth != nil {
		auth := api.Group("/auth")
		auth.Post("/register", h.Auth.Register)
		if limiter != nil {
			auth.Post("/login", limiter.Handler(), h.Auth.Login)
		} else {
			auth.Post("/login", h.Auth.Login)
		}
		auth.Post("/logout", h.Auth.Logout)
		auth.Get("/me", gate.Authenticated(), h.Auth.Me)
	}

	if h.Users != nil {
		resource(api, gate, "/users", models.ResourceUsers, h.Users)
	}

	if h.Permissions != nil {
		perms := api.Group("/permissions", gate.WithRole(models.RoleSuperAdmin))
		perms.Get("", h.Permissions.List)
		perms.Put("", h.Permissions.Upsert)
		perms.Post("/cache/clear", h.Permissions.ClearCache)
		perms.Get("/:role", h.Permissions.ListByRole)
		perms.Delete("/:role/:resource", h.Permissions.Remove)
	}

	if h.Activity != nil {
		api.Get("/activity-logs", gate.WithRole(models.RoleSuperAdmin, models.RoleAdmin), h.Activity.List)
	}

	social := api.Group("/social-media")
	if h.Accounts != nil {
		resource(social, gate, "/accounts", models.ResourceSocialMediaAccounts, h.Accounts)
	}
	if h.Posts != nil {
		resource(social, gate, "/posts", models.ResourceSocialMediaPosts, h.Posts)
		social.Post("/posts/:id/publish",
			gate.WithPermission(models.ResourceSocialMediaPosts, models.PermissionUpdate), h.Posts.Publish)
	}
	if h.Analytics != nil {
		social.Get("/analytics",
			gate.WithPermission(models.ResourceSocialMediaAnalytics, models.PermissionRead), h.Analytics.List)
		social.Post("/analytics",
			gate.WithPermission(models.ResourceSocialMediaAnalytics, models.PermissionCreate), h.Analytics.Record)
	}

	if h.Followers != nil {
		resource(api, gate, "/followers", models.ResourceFollowers, h.Followers)
	}
	if h.Families != nil {
		resource(api, gate, "/families", models.ResourceFollowers, h.Families)
	}
	if h.PrayerPoints != nil {
		api.Get("/followers/:id/prayer-points",
			gate.WithPermission(models.ResourceFollowers, models.PermissionRead), h.PrayerPoints.ListByFollower)
		api.Post("/followers/:id/prayer-points",
			gate.WithPermission(models.ResourceFollowers, models.PermissionCreate), h.PrayerPoints.CreateForFollower)
		api.Put("/prayer-points/:id",
			gate.WithPermission(models.ResourceFollowers, models.PermissionUpdate), h.PrayerPoints.Update)
		api.Put("/prayer-points/:id/status",
			gate.WithPermission(models.ResourceFollowers, models.PermissionUpdate), h.PrayerPoints.SetStatus)
		api.Delete("/prayer-points/:id",
			gate.WithPermission(models.ResourceFollowers, models.PermissionDelete), h.PrayerPoints.Remove)
	}

	if h.Notes != nil {
		resource(api, gate, "/notes", models.ResourceNotes, h.Notes)
	}
	if h.Blogs != nil {
		resource(api, gate, "/blogs", models.ResourceBlogs, h.Blogs)
	}
	if h.Events != nil {
		resource(api, gate, "/events", models.ResourceEvents, h.Events)
	}
	if h.Team != nil {
		resource(api, gate, "/team", models.ResourceTeam, h.Team)
	}
	if h.Prophecy != nil {
		resource(api, gate, "/prophecy", models.ResourceProphecy, h.Prophecy)
	}

	if h.Media != nil {
		media(api, gate, "/media", models.ResourceMedia, h.Media)
	}
	if h.Gallery != nil {
		media(api, gate, "/gallery", models.ResourceGallery, h.Gallery)
	}

	if h.Settings != nil {
		api.Get("/settings", gate.WithPermission(models.ResourceSettings, models.PermissionRead), h.Settings.List)
		api.Get("/settings/:key", gate.WithPermission(models.ResourceSettings, models.PermissionRead), h.Settings.Get)
		api.Put("/settings/:key", gate.WithPermission(models.ResourceSettings, models.PermissionUpdate), h.Settings.UpdateSetting)
	}

	if h.Public != nil {
		public := api.Group("/public")
		public.Get("/blogs", h.Public.Blogs)
		public.Get("/blogs/:slug", h.Public.Blog)
		public.Get("/events", h.Public.Events)
		public.Get("/team", h.Public.Team)
	}
}

func resource(r fiber.Router, gate *middleware.Gate, path string, res models.Resource, h crudRoutes) {
	r.Get(path, gate.WithPermission(res, models.PermissionRead), h.List)
	r.Post(path, gate.WithPermission(res, models.PermissionCreate), h.Create)
	r.Get(path+"/:id", gate.WithPermission(res, models.PermissionRead), h.Get)
	r.Put(path+"/:id", gate.WithPermission(res, models.PermissionUpdate), h.Update)
	r.Delete(path+"/:id", gate.WithPermission(res, models.PermissionDelete), h.Remove)
}

func media(r fiber.Router, gate *middleware.Gate, path string, res models.Resource, h *handlers.MediaHandler) {
	r.Get(path, gate.WithPermission(res, models.PermissionRead), h.List)
	r.Post(path, gate.WithPermission(res, models.PermissionCreate), h.Upload)
	r.Delete(path+"/:id", gate.WithPermission(res, models.PermissionDelete), h.Remove)
}
