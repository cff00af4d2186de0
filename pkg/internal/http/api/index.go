package api

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func MapAPIs(app *fiber.App, baseURL string) {
	api := app.Group(baseURL).Name("API")
	{
		api.Get("/users/me", authMiddleware, getUserinfo)
		api.Get("/users/:userId", getOthersInfo)

		friends := api.Group("/friends").Use(authMiddleware).Name("Friendships API")
		{
			friends.Get("/", listFriends)
			friends.Post("/requests", createFriendRequest)
			friends.Put("/requests/:requestId", respondFriendRequest)
		}

		calls := api.Group("/calls").Use(authMiddleware).Name("Calls API")
		{
			calls.Get("/history", listCallHistory)
			calls.Get("/ongoing", getOngoingCall)
			calls.Post("/start", startCall)
			calls.Post("/accept", acceptCall)
			calls.Post("/confirm", confirmCall)
			calls.Post("/end", endCall)
		}

		api.Get("/ws", authMiddleware, websocket.New(wsGateway))
	}
}
