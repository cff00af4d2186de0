package api

import (
	"errors"

	"github.com/amoria/calling/pkg/internal/http/exts"
	"github.com/amoria/calling/pkg/internal/models"
	"github.com/amoria/calling/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

func startCall(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		ReceiverID uint            `json:"receiver_id" validate:"required"`
		Type       models.CallType `json:"type" validate:"required,oneof=voice video"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	receiver, err := services.GetAccount(data.ReceiverID)
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "receiver not found")
	}

	call, tk, err := services.StartCall(user, receiver, data.Type)
	if errors.Is(err, services.ErrNotFriends) {
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	} else if errors.Is(err, services.ErrCallOngoing) {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"call_id":      call.ID,
		"channel_name": call.ChannelName,
		"token":        tk,
		"endpoint":     viper.GetString("calling.endpoint"),
	})
}

func acceptCall(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		ChannelName string `json:"channel_name" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	call, err := services.AcceptCall(user, data.ChannelName)
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, services.ErrCallResolved) {
		return fiber.NewError(fiber.StatusNotFound, "call was not found or already resolved")
	} else if errors.Is(err, services.ErrNotParticipant) {
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"status":       "waiting_for_confirmation",
		"channel_name": call.ChannelName,
	})
}

func confirmCall(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		ChannelName string `json:"channel_name" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	call, tk, err := services.ConfirmCall(user, data.ChannelName)
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, services.ErrCallResolved) {
		return fiber.NewError(fiber.StatusBadRequest, "call cannot start, the other party may not have accepted yet")
	} else if errors.Is(err, services.ErrNotParticipant) {
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"token":        tk,
		"endpoint":     viper.GetString("calling.endpoint"),
		"channel_name": call.ChannelName,
	})
}

func endCall(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		ChannelName string `json:"channel_name" validate:"required"`
		Reason      string `json:"reason"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	_, err := services.EndCall(user, data.ChannelName, data.Reason)
	if errors.Is(err, services.ErrNotParticipant) {
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	// Ending a missing or already-terminal call is a success, by contract.
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

func getOngoingCall(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	call, err := services.GetOngoingCallForUser(user)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.JSON(call)
}

func listCallHistory(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	calls, count, err := services.ListCallHistory(user, take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  calls,
	})
}
