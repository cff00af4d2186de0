package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var pushHc = &http.Client{Timeout: 5 * time.Second}

// PushToUser delivers a push notification through the configured push
// gateway, which owns device token lifecycle and the FCM/APNs handoff.
func PushToUser(userId uint, title, body string, metadata map[string]any) error {
	endpoint := viper.GetString("push_gateway.endpoint")
	if len(endpoint) == 0 {
		return fmt.Errorf("push gateway is not configured")
	}

	payload, err := jsoniter.Marshal(map[string]any{
		"user_id":  userId,
		"title":    title,
		"body":     body,
		"priority": 5,
		"metadata": metadata,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/api/notify", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+viper.GetString("push_gateway.access_token"))

	resp, err := pushHc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("push gateway responded with status %d", resp.StatusCode)
	}
	return nil
}

// BroadcastToUser is the realtime leg of the fan-out. Same contract as
// PushToUser: best-effort, failures are logged by the caller's name and never
// bubble into the triggering transition.
func BroadcastToUser(event string, userId uint, payload map[string]any) {
	if err := PublishToUser(userId, payload); err != nil {
		log.Warn().Err(err).Str("event", event).Uint("user_id", userId).
			Msg("Unable to publish signaling payload to realtime stream...")
	}
}
