package api

import (
	"github.com/amoria/calling/pkg/internal/models"
	"github.com/amoria/calling/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func getUserinfo(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	return c.JSON(user)
}

func getOthersInfo(c *fiber.Ctx) error {
	userId, err := c.ParamsInt("userId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed user id")
	}

	account, err := services.GetAccount(uint(userId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.JSON(account.PublicInfo())
}
