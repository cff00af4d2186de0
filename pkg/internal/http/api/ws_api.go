package api

import (
	"context"

	"github.com/amoria/calling/pkg/internal/models"
	"github.com/amoria/calling/pkg/internal/services"
	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog/log"
)

// wsGateway bridges the user's realtime pub/sub channel onto a websocket so
// mobile clients receive signaling payloads without polling.
func wsGateway(c *websocket.Conn) {
	user := c.Locals("user").(models.Account)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := services.SubscribeUser(ctx, user.ID)
	if sub == nil {
		log.Warn().Uint("user_id", user.ID).Msg("Realtime broker unavailable, dropping websocket...")
		_ = c.Close()
		return
	}
	defer sub.Close()

	// Drain the read side so closes and pings surface as errors.
	go func() {
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	stream := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-stream:
			if !ok {
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		}
	}
}
