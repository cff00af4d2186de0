package models

type Account struct {
	BaseModel

	Name   string  `json:"name"`
	Nick   string  `json:"nick"`
	Avatar *string `json:"avatar"`

	Calls          []Call          `json:"calls" gorm:"foreignKey:CallerID"`
	FriendRequests []FriendRequest `json:"friend_requests" gorm:"foreignKey:SenderID"`
}

// PublicInfo is the subset of an account shared with counter-parties in call
// payloads and history entries.
func (v Account) PublicInfo() map[string]any {
	return map[string]any{
		"id":     v.ID,
		"name":   v.Name,
		"nick":   v.Nick,
		"avatar": v.Avatar,
	}
}
