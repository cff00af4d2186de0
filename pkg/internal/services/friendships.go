package services

import (
	"errors"
	"fmt"

	"github.com/amoria/calling/pkg/internal/database"
	"github.com/amoria/calling/pkg/internal/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// CheckFriendship reports whether the unordered pair has an accepted
// friendship. It is the authorization predicate for starting calls; any
// lookup failure counts as not friends.
func CheckFriendship(userA, userB uint) bool {
	var count int64
	if err := database.C.Model(&models.FriendRequest{}).
		Where("status = ?", models.FriendshipAccepted).
		Where(
			database.C.
				Where("sender_id = ? AND receiver_id = ?", userA, userB).
				Or("sender_id = ? AND receiver_id = ?", userB, userA),
		).
		Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

func GetFriendRequest(id uint) (models.FriendRequest, error) {
	var request models.FriendRequest
	if err := database.C.
		Preload("Sender").
		Preload("Receiver").
		Where("id = ?", id).
		First(&request).Error; err != nil {
		return request, err
	}
	return request, nil
}

func NewFriendRequest(sender models.Account, receiverId uint) (models.FriendRequest, error) {
	var request models.FriendRequest
	if sender.ID == receiverId {
		return request, fmt.Errorf("unable to send a friend request to yourself")
	}

	if _, err := GetAccount(receiverId); err != nil {
		return request, fmt.Errorf("unable to find user #%d: %v", receiverId, err)
	}

	var existing models.FriendRequest
	err := database.C.
		Where(
			database.C.
				Where("sender_id = ? AND receiver_id = ?", sender.ID, receiverId).
				Or("sender_id = ? AND receiver_id = ?", receiverId, sender.ID),
		).
		Where("status IN ?", []models.FriendshipStatus{models.FriendshipPending, models.FriendshipAccepted}).
		First(&existing).Error
	if err == nil {
		if existing.Status == models.FriendshipAccepted {
			return request, fmt.Errorf("you already are friends with that user")
		}
		if existing.SenderID == sender.ID {
			return request, fmt.Errorf("you already sent a friend request to that user")
		}
		return request, fmt.Errorf("that user already sent a friend request to you")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return request, err
	}

	request = models.FriendRequest{
		SenderID:   sender.ID,
		ReceiverID: receiverId,
		Status:     models.FriendshipPending,
	}
	if err := database.C.Create(&request).Error; err != nil {
		return request, err
	}
	return request, nil
}

func RespondFriendRequest(request models.FriendRequest, accept bool) (models.FriendRequest, error) {
	next := models.FriendshipDeclined
	if accept {
		next = models.FriendshipAccepted
	}

	tx := database.C.Model(&models.FriendRequest{}).
		Where("id = ? AND status = ?", request.ID, models.FriendshipPending).
		Update("status", next)
	if tx.Error != nil {
		return request, tx.Error
	} else if tx.RowsAffected == 0 {
		return request, fmt.Errorf("friend request was already resolved")
	}

	request.Status = next
	return request, nil
}

func ListFriends(user models.Account) ([]models.Account, error) {
	var requests []models.FriendRequest
	if err := database.C.
		Where("status = ?", models.FriendshipAccepted).
		Where(
			database.C.
				Where("sender_id = ?", user.ID).
				Or("receiver_id = ?", user.ID),
		).
		Preload("Sender").
		Preload("Receiver").
		Find(&requests).Error; err != nil {
		return nil, err
	}

	return lo.Map(requests, func(item models.FriendRequest, idx int) models.Account {
		if item.SenderID == user.ID {
			return item.Receiver
		}
		return item.Sender
	}), nil
}
