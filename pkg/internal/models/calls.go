package models

import "time"

type CallType string

const (
	CallTypeVoice = CallType("voice")
	CallTypeVideo = CallType("video")
)

func (t CallType) IsValid() bool {
	return t == CallTypeVoice || t == CallTypeVideo
}

type CallStatus string

const (
	CallStatusRinging  = CallStatus("ringing")
	CallStatusAccepted = CallStatus("accepted")
	CallStatusDeclined = CallStatus("declined")
	CallStatusEnded    = CallStatus("ended")
	CallStatusMissed   = CallStatus("missed")
)

// callTransitions is the closed set of legal status moves. Anything not listed
// here is rejected before it reaches the database.
var callTransitions = map[CallStatus][]CallStatus{
	CallStatusRinging:  {CallStatusAccepted, CallStatusDeclined, CallStatusMissed},
	CallStatusAccepted: {CallStatusEnded},
}

func (s CallStatus) CanBecome(next CallStatus) bool {
	for _, allowed := range callTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s CallStatus) IsTerminal() bool {
	return len(callTransitions[s]) == 0
}

// LiveCallStatuses are the statuses a call attempt can hold while it still
// occupies the pair's channel.
var LiveCallStatuses = []CallStatus{CallStatusRinging, CallStatusAccepted}

type Call struct {
	BaseModel

	CallerID    uint       `json:"caller_id"`
	ReceiverID  uint       `json:"receiver_id"`
	Caller      Account    `json:"caller"`
	Receiver    Account    `json:"receiver"`
	ChannelName string     `json:"channel_name" gorm:"index"`
	Type        CallType   `json:"type"`
	Status      CallStatus `json:"status"`
	StartedAt   *time.Time `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at"`
	Duration    int64      `json:"duration"`
}

func (v Call) Involves(userId uint) bool {
	return v.CallerID == userId || v.ReceiverID == userId
}

// CounterpartTo returns the other participant of the call.
func (v Call) CounterpartTo(userId uint) Account {
	if v.CallerID == userId {
		return v.Receiver
	}
	return v.Caller
}
