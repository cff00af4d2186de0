package services

import (
	"time"

	"github.com/amoria/calling/pkg/internal/database"
	"github.com/amoria/calling/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// SweepStaleRingingCalls resolves calls left ringing beyond the ring timeout
// to missed. It goes through the same guarded conditional update as a
// client-driven end, so it never races past a concurrent accept.
func SweepStaleRingingCalls() {
	timeout := viper.GetInt("calling.ring_timeout")
	if timeout <= 0 {
		timeout = 60
	}
	deadline := time.Now().Add(-time.Duration(timeout) * time.Second)

	var stale []models.Call
	if err := database.C.
		Where("status = ?", models.CallStatusRinging).
		Where("created_at < ?", deadline).
		Find(&stale).Error; err != nil {
		log.Error().Err(err).Msg("Unable to list stale ringing calls...")
		return
	}

	for _, call := range stale {
		tx := database.C.Model(&models.Call{}).
			Where("id = ? AND status = ?", call.ID, models.CallStatusRinging).
			Update("status", models.CallStatusMissed)
		if tx.Error != nil {
			log.Error().Err(tx.Error).Uint("call_id", call.ID).Msg("Unable to sweep stale ringing call...")
			continue
		} else if tx.RowsAffected == 0 {
			continue
		}
		call.Status = models.CallStatusMissed

		DeleteCallRoom(call.ChannelName)

		payload := callSignalPayload(SignalCallEnded, call)
		payload["reason"] = EndReasonTimeout
		BroadcastToUser(SignalCallEnded, call.CallerID, payload)
		BroadcastToUser(SignalCallEnded, call.ReceiverID, payload)

		RecordSignalEvent(call, call.CallerID, models.EventCallEnd, map[string]any{
			"reason": EndReasonTimeout,
		})

		log.Debug().Uint("call_id", call.ID).Str("channel", call.ChannelName).
			Msg("Resolved stale ringing call to missed.")
	}
}
