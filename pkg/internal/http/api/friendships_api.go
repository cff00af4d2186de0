package api

import (
	"github.com/amoria/calling/pkg/internal/http/exts"
	"github.com/amoria/calling/pkg/internal/models"
	"github.com/amoria/calling/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func listFriends(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	friends, err := services.ListFriends(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(friends)
}

func createFriendRequest(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		ReceiverID uint `json:"receiver_id" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	request, err := services.NewFriendRequest(user, data.ReceiverID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(request)
}

func respondFriendRequest(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	requestId, err := c.ParamsInt("requestId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request id")
	}

	var data struct {
		Accept bool `json:"accept"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	request, err := services.GetFriendRequest(uint(requestId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	} else if request.ReceiverID != user.ID {
		return fiber.NewError(fiber.StatusForbidden, "only the receiver can respond to a friend request")
	}

	if request, err = services.RespondFriendRequest(request, data.Accept); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(request)
}
