package services

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

var Rd *redis.Client

func SetupRedis() error {
	Rd = redis.NewClient(&redis.Options{
		Addr:     viper.GetString("redis.addr"),
		Password: viper.GetString("redis.password"),
		DB:       viper.GetInt("redis.db"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return Rd.Ping(ctx).Err()
}

// UserStreamChannel is the per-user pub/sub channel every signaling payload
// for that user is published on. The websocket gateway subscribes to it and
// forwards payloads verbatim.
func UserStreamChannel(userId uint) string {
	return fmt.Sprintf("user.%d", userId)
}

func PublishToUser(userId uint, payload map[string]any) error {
	if Rd == nil {
		return fmt.Errorf("realtime broker is not configured")
	}

	raw, err := jsoniter.Marshal(payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return Rd.Publish(ctx, UserStreamChannel(userId), raw).Err()
}

func SubscribeUser(ctx context.Context, userId uint) *redis.PubSub {
	if Rd == nil {
		return nil
	}
	return Rd.Subscribe(ctx, UserStreamChannel(userId))
}
