package services

import (
	"context"
	"strconv"
	"time"

	"github.com/amoria/calling/pkg/internal/models"
	jsoniter "github.com/json-iterator/go"
	"github.com/livekit/protocol/auth"
	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var Lk *lksdk.RoomServiceClient

func SetupLiveKit() {
	host := "https://" + viper.GetString("calling.endpoint")

	Lk = lksdk.NewRoomServiceClient(
		host,
		viper.GetString("calling.api_key"),
		viper.GetString("calling.api_secret"),
	)
}

// CreateCallRoom provisions the media room for one call attempt. Failures are
// logged and tolerated; participants can still join once the media server
// auto-creates the room on first entry.
func CreateCallRoom(channelName string) {
	if Lk == nil {
		return
	}
	_, err := Lk.CreateRoom(context.Background(), &livekit.CreateRoomRequest{
		Name:            channelName,
		EmptyTimeout:    viper.GetUint32("calling.empty_timeout_duration"),
		MaxParticipants: 2,
	})
	if err != nil {
		log.Warn().Err(err).Str("channel", channelName).Msg("Unable to create room at livekit side...")
	}
}

func DeleteCallRoom(channelName string) {
	if Lk == nil {
		return
	}
	_, err := Lk.DeleteRoom(context.Background(), &livekit.DeleteRoomRequest{
		Room: channelName,
	})
	if err != nil {
		log.Warn().Err(err).Str("channel", channelName).Msg("Unable to delete room at livekit side...")
	}
}

// EncodeCallToken mints the time-boxed media access credential for one
// participant of a call. Voice calls are restricted to microphone publishing.
func EncodeCallToken(user models.Account, channelName string, callType models.CallType) (string, error) {
	grant := &auth.VideoGrant{
		Room:     channelName,
		RoomJoin: true,
	}
	if callType == models.CallTypeVoice {
		grant.CanPublishSources = []string{"microphone"}
	}

	metadata, _ := jsoniter.Marshal(user.PublicInfo())

	duration := time.Second * time.Duration(viper.GetInt("calling.token_duration"))
	tk := auth.NewAccessToken(viper.GetString("calling.api_key"), viper.GetString("calling.api_secret"))
	tk.AddGrant(grant).
		SetIdentity(strconv.FormatUint(uint64(user.ID), 10)).
		SetName(user.Nick).
		SetMetadata(string(metadata)).
		SetValidFor(duration)

	return tk.ToJWT()
}
