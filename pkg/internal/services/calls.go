package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/amoria/calling/pkg/internal/database"
	"github.com/amoria/calling/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// Wire-level event types delivered through the notification fan-out.
const (
	SignalIncomingCall = "incoming_call"
	SignalCallAccepted = "call_accepted"
	SignalCallStarted  = "call_started"
	SignalCallEnded    = "call_ended"
)

// End reasons carried on the call_ended payload.
const (
	EndReasonDeclined = "declined"
	EndReasonEnded    = "ended"
	EndReasonTimeout  = "timeout"
)

var (
	ErrNotFriends     = errors.New("you can only call your friends")
	ErrNotParticipant = errors.New("you are not a participant of this call")
	ErrCallOngoing    = errors.New("there already is a live call for this pair")
	// ErrCallResolved is the benign guard-failure outcome: another request
	// already advanced the call past the expected pre-state.
	ErrCallResolved = errors.New("call was already resolved")
)

func GetCallByChannel(channelName string) (models.Call, error) {
	var call models.Call
	if err := database.C.
		Where("channel_name = ?", channelName).
		Preload("Caller").
		Preload("Receiver").
		Order("created_at DESC").
		First(&call).Error; err != nil {
		return call, err
	}
	return call, nil
}

func GetLiveCallByChannel(channelName string) (models.Call, error) {
	var call models.Call
	if err := database.C.
		Where("channel_name = ?", channelName).
		Where("status IN ?", models.LiveCallStatuses).
		Preload("Caller").
		Preload("Receiver").
		Order("created_at DESC").
		First(&call).Error; err != nil {
		return call, err
	}
	return call, nil
}

func GetOngoingCallForUser(user models.Account) (models.Call, error) {
	var call models.Call
	if err := database.C.
		Where("caller_id = ? OR receiver_id = ?", user.ID, user.ID).
		Where("status IN ?", models.LiveCallStatuses).
		Preload("Caller").
		Preload("Receiver").
		Order("created_at DESC").
		First(&call).Error; err != nil {
		return call, err
	}
	return call, nil
}

func ListCallHistory(user models.Account, take, offset int) ([]models.Call, int64, error) {
	if take <= 0 || take > 100 {
		take = 20
	}

	var count int64
	if err := database.C.Model(&models.Call{}).
		Where("caller_id = ? OR receiver_id = ?", user.ID, user.ID).
		Count(&count).Error; err != nil {
		return nil, count, err
	}

	var calls []models.Call
	if err := database.C.
		Where("caller_id = ? OR receiver_id = ?", user.ID, user.ID).
		Preload("Caller").
		Preload("Receiver").
		Order("created_at DESC").
		Limit(take).
		Offset(offset).
		Find(&calls).Error; err != nil {
		return calls, count, err
	}
	return calls, count, nil
}

func callSignalPayload(eventType string, call models.Call) map[string]any {
	return map[string]any{
		"type":         eventType,
		"call_id":      call.ID,
		"call_type":    call.Type,
		"channel_name": call.ChannelName,
		"status":       call.Status,
		"created_at":   call.CreatedAt.Format(time.RFC3339),
	}
}

// StartCall creates the call attempt in ringing state and rings the receiver
// through both fan-out legs. The returned token is the caller's; it may be
// empty when the token issuer is unavailable, the attempt still stands.
func StartCall(caller models.Account, receiver models.Account, callType models.CallType) (models.Call, string, error) {
	var call models.Call
	if !CheckFriendship(caller.ID, receiver.ID) {
		return call, "", ErrNotFriends
	}

	channelName := CallChannelName(caller.ID, receiver.ID)

	// One live session per pair; a second start never forks a parallel one.
	if live, err := GetLiveCallByChannel(channelName); err == nil {
		return live, "", ErrCallOngoing
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return call, "", err
	}

	call = models.Call{
		CallerID:    caller.ID,
		ReceiverID:  receiver.ID,
		Caller:      caller,
		Receiver:    receiver,
		ChannelName: channelName,
		Type:        callType,
		Status:      models.CallStatusRinging,
	}
	if err := database.C.Create(&call).Error; err != nil {
		return call, "", err
	}

	// Everything below is best-effort: the ringing row is already durable.
	CreateCallRoom(channelName)

	callerTk, err := EncodeCallToken(caller, channelName, callType)
	if err != nil {
		log.Warn().Err(err).Str("channel", channelName).Msg("Unable to issue call token for caller...")
	}
	receiverTk, err := EncodeCallToken(receiver, channelName, callType)
	if err != nil {
		log.Warn().Err(err).Str("channel", channelName).Msg("Unable to issue call token for receiver...")
	}

	payload := callSignalPayload(SignalIncomingCall, call)
	payload["caller"] = caller.PublicInfo()
	payload["receiver"] = receiver.PublicInfo()
	payload["token"] = receiverTk
	payload["endpoint"] = viper.GetString("calling.endpoint")

	if err := PushToUser(
		receiver.ID,
		"Incoming call",
		fmt.Sprintf("%s is inviting you to a %s call", caller.Name, callType),
		payload,
	); err != nil {
		log.Warn().Err(err).Uint("user_id", receiver.ID).Msg("Unable to push incoming call notification...")
	}
	BroadcastToUser(SignalIncomingCall, receiver.ID, payload)

	RecordSignalEvent(call, caller.ID, models.EventCallStart, map[string]any{})

	return call, callerTk, nil
}

// AcceptCall moves a ringing call to accepted. The guard is a single
// conditional write, so of two racing transitions exactly one wins.
func AcceptCall(user models.Account, channelName string) (models.Call, error) {
	call, err := GetLiveCallByChannel(channelName)
	if err != nil {
		return call, err
	}
	if !call.Involves(user.ID) {
		return call, ErrNotParticipant
	}

	tx := database.C.Model(&models.Call{}).
		Where("channel_name = ? AND status = ?", channelName, models.CallStatusRinging).
		Update("status", models.CallStatusAccepted)
	if tx.Error != nil {
		return call, tx.Error
	} else if tx.RowsAffected == 0 {
		return call, ErrCallResolved
	}
	call.Status = models.CallStatusAccepted

	payload := callSignalPayload(SignalCallAccepted, call)
	payload["receiver_id"] = user.ID
	BroadcastToUser(SignalCallAccepted, call.CounterpartTo(user.ID).ID, payload)

	RecordSignalEvent(call, user.ID, models.EventCallAccept, map[string]any{})

	return call, nil
}

// ConfirmCall marks an accepted call live by setting started_at exactly once,
// then mints tokens for both parties. Returns the caller's token.
func ConfirmCall(user models.Account, channelName string) (models.Call, string, error) {
	call, err := GetLiveCallByChannel(channelName)
	if err != nil {
		return call, "", err
	}
	if !call.Involves(user.ID) {
		return call, "", ErrNotParticipant
	}

	now := time.Now()
	tx := database.C.Model(&models.Call{}).
		Where("channel_name = ? AND status = ? AND started_at IS NULL", channelName, models.CallStatusAccepted).
		Update("started_at", now)
	if tx.Error != nil {
		return call, "", tx.Error
	} else if tx.RowsAffected == 0 {
		return call, "", ErrCallResolved
	}
	call.StartedAt = &now

	callerTk, err := EncodeCallToken(call.Caller, channelName, call.Type)
	if err != nil {
		log.Warn().Err(err).Str("channel", channelName).Msg("Unable to issue call token for caller...")
	}
	receiverTk, err := EncodeCallToken(call.Receiver, channelName, call.Type)
	if err != nil {
		log.Warn().Err(err).Str("channel", channelName).Msg("Unable to issue call token for receiver...")
	}

	payload := callSignalPayload(SignalCallStarted, call)
	payload["token"] = receiverTk
	payload["endpoint"] = viper.GetString("calling.endpoint")
	payload["caller_id"] = call.CallerID
	BroadcastToUser(SignalCallStarted, call.ReceiverID, payload)

	RecordSignalEvent(call, user.ID, models.EventCallConfirm, map[string]any{})

	return call, callerTk, nil
}

// EndCall resolves the channel's latest call. A ringing call becomes declined
// only on an explicit decline, otherwise missed; an accepted call becomes
// ended with its duration computed. Ending an already-terminal call is an
// idempotent no-op.
func EndCall(user models.Account, channelName string, reason string) (models.Call, error) {
	call, err := GetCallByChannel(channelName)
	if err != nil {
		return call, err
	}
	if !call.Involves(user.ID) {
		return call, ErrNotParticipant
	}

	switch call.Status {
	case models.CallStatusRinging:
		next := models.CallStatusMissed
		if reason == EndReasonDeclined {
			next = models.CallStatusDeclined
		}
		tx := database.C.Model(&models.Call{}).
			Where("channel_name = ? AND status = ?", channelName, models.CallStatusRinging).
			Update("status", next)
		if tx.Error != nil {
			return call, tx.Error
		} else if tx.RowsAffected == 0 {
			// Lost the race; the other party resolved it first.
			return GetCallByChannel(channelName)
		}
		call.Status = next
	case models.CallStatusAccepted:
		now := time.Now()
		updates := map[string]any{
			"status":   models.CallStatusEnded,
			"ended_at": now,
		}
		if call.StartedAt != nil {
			updates["duration"] = int64(now.Sub(*call.StartedAt).Seconds())
		}
		tx := database.C.Model(&models.Call{}).
			Where("channel_name = ? AND status = ?", channelName, models.CallStatusAccepted).
			Updates(updates)
		if tx.Error != nil {
			return call, tx.Error
		} else if tx.RowsAffected == 0 {
			return GetCallByChannel(channelName)
		}
		call.Status = models.CallStatusEnded
		call.EndedAt = &now
		if call.StartedAt != nil {
			call.Duration = int64(now.Sub(*call.StartedAt).Seconds())
		}
	default:
		// Already terminal, nothing to re-mutate.
		return call, nil
	}

	DeleteCallRoom(channelName)

	if len(reason) == 0 {
		reason = EndReasonEnded
	}
	payload := callSignalPayload(SignalCallEnded, call)
	payload["reason"] = reason
	BroadcastToUser(SignalCallEnded, call.CounterpartTo(user.ID).ID, payload)

	RecordSignalEvent(call, user.ID, models.EventCallEnd, map[string]any{
		"reason":   reason,
		"duration": call.Duration,
	})

	return call, nil
}
