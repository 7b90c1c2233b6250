package bot

import (
	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/streeteda/streeteda/core/telegram/helpers"
	"github.com/streeteda/streeteda/core/telegram/keyboard"
	"github.com/streeteda/streeteda/internal/admin"
	"github.com/streeteda/streeteda/internal/order"
)

// InProgress implements the flow-manager contract for free-form routing.
func (h *Handlers) InProgress(userID int64) bool {
	return h.sessions.InProgress(userID)
}

// ManagerHandler receives every free-form update while a dialogue is
// active and dispatches it to the owning engine.
func (h *Handlers) ManagerHandler(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID
	step := h.sessions.Step(userID)

	switch {
	case step.OrderFlow():
		in := order.Input{Kind: order.InputText, Text: c.Text()}
		if m := c.Message(); m != nil && m.Contact != nil {
			in = order.Input{Kind: order.InputContact, Phone: m.Contact.PhoneNumber}
		}
		reply, err := h.orders.Handle(ctx, userID, in)
		if rerr := h.renderOrderReply(c, reply); rerr != nil {
			return rerr
		}
		return err
	case step.AdminFlow():
		in := admin.Input{Text: c.Text()}
		if m := c.Message(); m != nil && m.Photo != nil {
			in.PhotoID = m.Photo.FileID
		}
		reply, err := h.admins.Handle(ctx, userID, in)
		if rerr := h.renderAdminReply(c, reply); rerr != nil {
			return rerr
		}
		return err
	}
	return nil
}

// renderOrderReply maps an engine reply onto concrete messages and keyboards.
func (h *Handlers) renderOrderReply(c tele.Context, r order.Reply) error {
	switch r.Code {
	case order.CodeAskName:
		return tghelpers.SendMD(c, textAskName, keyboard.RemoveKeyboard())
	case order.CodeEmptyName:
		return tghelpers.SendText(c, textEmptyName)
	case order.CodeAskPhone:
		return tghelpers.SendMD(c, textAskPhone, contactKeyboard())
	case order.CodeInvalidPhone:
		return tghelpers.SendText(c, textInvalidPhone)
	case order.CodeAskMode:
		if err := tghelpers.SendMD(c, textPhoneAccepted, keyboard.RemoveKeyboard()); err != nil {
			return err
		}
		return tghelpers.SendMD(c, textChooseMode, deliveryModeKeyboard())
	case order.CodeAskAddress:
		return tghelpers.SendText(c, textAskAddress)
	case order.CodeInvalidAddress:
		return tghelpers.SendText(c, textInvalidAddress)
	case order.CodeAskComment:
		return tghelpers.SendText(c, textAskComment)
	case order.CodeConfirm:
		if r.Review == nil {
			return nil
		}
		return tghelpers.SendMD(c, reviewText(r.Review), confirmKeyboard())
	case order.CodeCartEmpty:
		return tghelpers.SendMD(c, textCartEmpty, mainMenuKeyboard())
	case order.CodeStoreRetry:
		return tghelpers.SendText(c, textStoreRetry)
	case order.CodeOrderPlaced:
		return tghelpers.SendMD(c, orderPlacedText(r.OrderID), mainMenuKeyboard())
	case order.CodeCancelled:
		return tghelpers.SendMD(c, textCancelled, mainMenuKeyboard())
	}
	return nil
}

// renderAdminReply maps an admin engine reply onto messages; completions
// return the operator to the admin panel.
func (h *Handlers) renderAdminReply(c tele.Context, r admin.Reply) error {
	var text string
	switch r.Code {
	case admin.CodeAskCategoryName:
		text = textAskCategoryName
	case admin.CodeAskItemName:
		text = textAskItemName
	case admin.CodeAskItemDescription:
		text = textAskItemDescription
	case admin.CodeAskItemPrice:
		text = textAskItemPrice
	case admin.CodeAskItemPhoto:
		text = textAskItemPhoto
	case admin.CodeAskNewPrice:
		text = textAskNewPrice
	case admin.CodeAskSettingValue:
		text = textAskSettingValue
	case admin.CodeEmptyName:
		text = textEmptyName
	case admin.CodeDuplicateCategory:
		text = textDuplicateCategory
	case admin.CodeInvalidPrice:
		text = textInvalidPrice
	case admin.CodeInvalidValue, admin.CodeUnknownSetting:
		text = textInvalidValue
	case admin.CodeDenied:
		text = textDenied
	case admin.CodeStoreRetry:
		text = textStoreRetry
	case admin.CodeCategoryCreated:
		text = textCategoryCreated
	case admin.CodeCategoryDeleted:
		text = textCategoryDeleted
	case admin.CodeItemCreated:
		text = textItemCreated
	case admin.CodeItemDeleted:
		text = textItemDeleted
	case admin.CodePriceUpdated:
		text = textPriceUpdated
	case admin.CodeSettingUpdated:
		text = textSettingUpdated
	case admin.CodeCancelled:
		text = textAdminCancelled
	default:
		return nil
	}

	if err := tghelpers.SendText(c, text); err != nil {
		return err
	}
	if r.Kind == admin.KindCompletion {
		return tghelpers.SendMD(c, textAdminPanel, adminPanelKeyboard())
	}
	return nil
}
