package models

import "gorm.io/datatypes"

const (
	EventCallStart   = "calls.start"
	EventCallAccept  = "calls.accept"
	EventCallConfirm = "calls.confirm"
	EventCallEnd     = "calls.end"
)

// SignalEvent is an append-only record of a call transition, kept for
// operational auditing. It is written after the transition committed and never
// read on the signaling hot path.
type SignalEvent struct {
	BaseModel

	Uuid    string            `json:"uuid"`
	Body    datatypes.JSONMap `json:"body"`
	Type    string            `json:"type"`
	Call    Call              `json:"call"`
	CallID  uint              `json:"call_id"`
	ActorID uint              `json:"actor_id"`
}
