package models

type FriendshipStatus = int8

const (
	FriendshipPending = FriendshipStatus(iota)
	FriendshipAccepted
	FriendshipDeclined
)

type FriendRequest struct {
	BaseModel

	SenderID   uint             `json:"sender_id"`
	ReceiverID uint             `json:"receiver_id"`
	Sender     Account          `json:"sender"`
	Receiver   Account          `json:"receiver"`
	Status     FriendshipStatus `json:"status"`
}
