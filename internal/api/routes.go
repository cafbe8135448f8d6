package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/api/health-check", handler.Health)

	app.Post("/add-food", handler.AddFood)
	app.Post("/add-food-image", handler.AddFoodImage)
	app.Delete("/delete-food/:food_id", handler.DeleteFood)
	app.Get("/food/:food_id", handler.GetFood)
	app.Get("/list-foods", handler.ListFoods)
	app.Get("/list-users", handler.ListUsers)
	app.Get("/user-foods", handler.UserFoods)
	app.Get("/user-foods/:email", handler.UserFoods)

	app.Post("/mcp/tools/call", handler.CallTool)
}
