package services

import (
	"github.com/amoria/calling/pkg/internal/database"
	"github.com/amoria/calling/pkg/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RecordSignalEvent appends one transition to the audit log. The transition
// already committed, so a failed write here is logged and dropped.
func RecordSignalEvent(call models.Call, actorId uint, eventType string, body map[string]any) {
	event := models.SignalEvent{
		Uuid:    uuid.NewString(),
		Body:    body,
		Type:    eventType,
		CallID:  call.ID,
		ActorID: actorId,
	}
	if err := database.C.Create(&event).Error; err != nil {
		log.Warn().Err(err).Str("type", eventType).Uint("call_id", call.ID).
			Msg("Unable to record signal event...")
	}
}
