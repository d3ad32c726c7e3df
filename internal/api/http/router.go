package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/case-service/internal/api/http/handlers"
	"github.com/spec-kit/case-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Cases          *handlers.CasesHandler
	Tasks          *handlers.TasksHandler
	Reports        *handlers.ReportsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	cases := api.Group("/cases")
	cases.Post("", cfg.Cases.CreateCase)
	cases.Get("", cfg.Cases.ListCases)
	cases.Get("/:id", cfg.Cases.GetCase)
	cases.Post("/:id/submit", cfg.Cases.SubmitDraft)
	cases.Post("/:id/comments", cfg.Cases.AddComment)
	cases.Post("/:id/attachments", cfg.Cases.AddAttachment)
	cases.Post("/:id/decision", cfg.Cases.Decide)

	api.Post("/tasks/events", cfg.Tasks.TaskEvent)

	reports := api.Group("/reports")
	reports.Get("", cfg.Reports.List)
	reports.Get("/export", cfg.Reports.Export)
	reports.Post("/email", cfg.Reports.Email)

	admin := api.Group("/admin", auth.RequireAdmin())
	admin.Post("/purge", cfg.Admin.Purge)
	admin.Post("/users", cfg.Admin.LoadUsers)
	admin.Delete("/users", cfg.Admin.DeleteUsers)
	admin.Post("/auth-matrix", cfg.Admin.LoadAuthMatrix)
	admin.Get("/auth-matrix", cfg.Admin.ListAuthMatrix)
	admin.Delete("/auth-matrix", cfg.Admin.DeleteAuthMatrixEntry)
	admin.Post("/lookup", cfg.Admin.LoadLookupData)
	admin.Get("/lookup", cfg.Admin.ListLookupData)
	admin.Delete("/lookup", cfg.Admin.DeleteLookupData)
	admin.Post("/holidays", cfg.Admin.LoadHolidays)
	admin.Get("/holidays", cfg.Admin.ListHolidays)
}
