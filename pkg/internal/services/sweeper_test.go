package services

import (
	"testing"
	"time"

	"github.com/amoria/calling/pkg/internal/database"
	"github.com/amoria/calling/pkg/internal/models"
	"github.com/spf13/viper"
)

func TestSweepStaleRingingCalls(t *testing.T) {
	openTestDatabase(t)
	viper.Set("calling.ring_timeout", 30)
	caller, receiver := seedFriends(t)

	stale, _, err := StartCall(caller, receiver, models.CallTypeVoice)
	if err != nil {
		t.Fatalf("start call: %v", err)
	}
	if err := database.C.Model(&models.Call{}).
		Where("id = ?", stale.ID).
		Update("created_at", time.Now().Add(-time.Minute)).Error; err != nil {
		t.Fatalf("backdate call: %v", err)
	}

	carol := seedAccount(t, "carol")
	database.C.Create(&models.FriendRequest{
		SenderID: caller.ID, ReceiverID: carol.ID, Status: models.FriendshipAccepted,
	})
	fresh, _, err := StartCall(caller, carol, models.CallTypeVoice)
	if err != nil {
		t.Fatalf("start fresh call: %v", err)
	}

	SweepStaleRingingCalls()

	var swept models.Call
	if err := database.C.Where("id = ?", stale.ID).First(&swept).Error; err != nil {
		t.Fatalf("reload stale call: %v", err)
	}
	if swept.Status != models.CallStatusMissed {
		t.Errorf("stale call: got %s, want missed", swept.Status)
	}

	var kept models.Call
	if err := database.C.Where("id = ?", fresh.ID).First(&kept).Error; err != nil {
		t.Fatalf("reload fresh call: %v", err)
	}
	if kept.Status != models.CallStatusRinging {
		t.Errorf("fresh call: got %s, want ringing", kept.Status)
	}
}

func TestSweepIgnoresAcceptedCalls(t *testing.T) {
	openTestDatabase(t)
	viper.Set("calling.ring_timeout", 30)
	caller, receiver := seedFriends(t)

	call, _, err := StartCall(caller, receiver, models.CallTypeVoice)
	if err != nil {
		t.Fatalf("start call: %v", err)
	}
	if _, err := AcceptCall(receiver, call.ChannelName); err != nil {
		t.Fatalf("accept call: %v", err)
	}
	if err := database.C.Model(&models.Call{}).
		Where("id = ?", call.ID).
		Update("created_at", time.Now().Add(-time.Minute)).Error; err != nil {
		t.Fatalf("backdate call: %v", err)
	}

	SweepStaleRingingCalls()

	var kept models.Call
	if err := database.C.Where("id = ?", call.ID).First(&kept).Error; err != nil {
		t.Fatalf("reload call: %v", err)
	}
	if kept.Status != models.CallStatusAccepted {
		t.Errorf("accepted call must not be swept, got %s", kept.Status)
	}
}
