package services

import (
	"github.com/amoria/calling/pkg/internal/database"
	"github.com/amoria/calling/pkg/internal/models"
)

func GetAccount(id uint) (models.Account, error) {
	var account models.Account
	if err := database.C.Where("id = ?", id).First(&account).Error; err != nil {
		return account, err
	}
	return account, nil
}
