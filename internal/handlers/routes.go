package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/nutradaily/internal/middleware"
	"github.com/localnerve/nutradaily/internal/services"
)

// Register mounts every API route under /api
func Register(app *fiber.App, sc *services.Container) {
	accounts := &AccountHandler{Accounts: sc.Accounts, Sessions: sc.Sessions}
	activity := &ActivityHandler{Ledger: sc.Ledger}
	progress := &ProgressHandler{Accounts: sc.Accounts, Progress: sc.Progress}
	calculators := &NutritionHandler{Accounts: sc.Accounts}
	health := &HealthHandler{Container: sc}

	api := app.Group("/api")

	// Public routes
	api.Get("/health", health.GetHealth)
	api.Post("/accounts", accounts.Signup)
	api.Post("/session", accounts.Login)
	api.Delete("/session", accounts.Logout)

	// Routes for the signed-in user
	auth := middleware.AuthUser(sc.Sessions)

	api.Get("/account", auth, accounts.GetAccount)
	api.Patch("/account", auth, accounts.UpdateAccount)
	api.Delete("/account", auth, accounts.DeleteAccount)

	api.Post("/streak", auth, activity.MarkToday)
	api.Get("/streak", auth, activity.GetStreak)

	api.Post("/progress/calories", auth, progress.LogCalories)
	api.Post("/progress/water", auth, progress.LogWater)
	api.Get("/progress", auth, progress.GetReport)

	api.Get("/nutrition", auth, calculators.GetNutrition)
}
