package services

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/amoria/calling/pkg/internal/database"
	"github.com/amoria/calling/pkg/internal/models"
	"github.com/spf13/viper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	viper.Set("calling.endpoint", "livekit.test")
	viper.Set("calling.api_key", "testkey")
	viper.Set("calling.api_secret", "testsecret-testsecret-testsecret")
	viper.Set("calling.token_duration", 3600)

	os.Exit(m.Run())
}

func openTestDatabase(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.RunMigration(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	database.C = db
}

func seedAccount(t *testing.T, name string) models.Account {
	t.Helper()

	account := models.Account{Name: name, Nick: name}
	if err := database.C.Create(&account).Error; err != nil {
		t.Fatalf("seed account %s: %v", name, err)
	}
	return account
}

func seedFriends(t *testing.T) (models.Account, models.Account) {
	t.Helper()

	caller := seedAccount(t, "alice")
	receiver := seedAccount(t, "bob")
	request := models.FriendRequest{
		SenderID:   caller.ID,
		ReceiverID: receiver.ID,
		Status:     models.FriendshipAccepted,
	}
	if err := database.C.Create(&request).Error; err != nil {
		t.Fatalf("seed friendship: %v", err)
	}
	return caller, receiver
}
