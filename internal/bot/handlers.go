package bot

import (
	tele "gopkg.in/telebot.v4"

	coretelegram "github.com/streeteda/streeteda/core/telegram"
	"github.com/streeteda/streeteda/core/telegram/callbacks"
	"github.com/streeteda/streeteda/core/telegram/commands"
	tghelpers "github.com/streeteda/streeteda/core/telegram/helpers"
	"github.com/streeteda/streeteda/internal/admin"
	"github.com/streeteda/streeteda/internal/cart"
	"github.com/streeteda/streeteda/internal/domain"
	"github.com/streeteda/streeteda/internal/order"
	"github.com/streeteda/streeteda/internal/repository"
	"github.com/streeteda/streeteda/internal/session"
)

// Handlers binds the engines and stores to Telegram endpoints.
type Handlers struct {
	isAdmin  func(int64) bool
	catalog  repository.CatalogStore
	settings repository.SettingsStore
	carts    *cart.Service
	sessions *session.Store
	orders   *order.Engine
	admins   *admin.Engine
}

// NewHandlers wires the transport layer.
func NewHandlers(isAdmin func(int64) bool, stores repository.Stores, carts *cart.Service, sessions *session.Store, orders *order.Engine, admins *admin.Engine) *Handlers {
	return &Handlers{
		isAdmin:  isAdmin,
		catalog:  stores.Catalog,
		settings: stores.Settings,
		carts:    carts,
		sessions: sessions,
		orders:   orders,
		admins:   admins,
	}
}

// Register declares every command and callback on the registry.
func (h *Handlers) Register(reg *coretelegram.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.handleStart,
		Description: "Начать работу с ботом",
	})
	reg.RegisterCommand("/menu", commands.Command{
		Handler:     h.handleMenu,
		Description: "Показать меню",
	})
	reg.RegisterCommand("/cart", commands.Command{
		Handler:     h.handleCart,
		Description: "Показать корзину",
	})
	reg.RegisterCommand("/admin", commands.Command{
		Handler:     h.handleAdminPanel,
		Description: "Панель администратора",
		AdminOnly:   true,
		Hidden:      true,
	})

	reg.SetTextFallback(h.handleText)

	_ = reg.RegisterCallback(cbCategory, h.cbShowItems)
	_ = reg.RegisterCallback(cbItem, h.cbAddToCart)
	_ = reg.RegisterCallback(cbRemove, h.cbRemoveFromCart)
	_ = reg.RegisterCallback(cbViewCart, h.cbShowCart)
	_ = reg.RegisterCallback(cbToMenu, h.cbShowCategories)
	_ = reg.RegisterCallback(cbClearCart, h.cbClearCart)
	_ = reg.RegisterCallback(cbCheckout, h.cbCheckout)
	_ = reg.RegisterCallback(cbDelivery, h.cbChooseDelivery)
	_ = reg.RegisterCallback(cbConfirm, h.cbConfirmOrder)
	_ = reg.RegisterCallback(cbCancel, h.cbCancelOrder)

	_ = reg.RegisterCallback(cbAdminPanel, h.cbAdminPanel)
	_ = reg.RegisterCallback(cbAdminItems, h.cbAdminManageItems)
	_ = reg.RegisterCallback(cbAdminSettings, h.cbAdminShowSettings)
	_ = reg.RegisterCallback(cbAdminCategory, h.cbAdminCategoryItems)
	_ = reg.RegisterCallback(cbAdminAddCat, h.cbAdminAddCategory)
	_ = reg.RegisterCallback(cbAdminDelCats, h.cbAdminDeleteCategoryMenu)
	_ = reg.RegisterCallback(cbAdminDelCat, h.cbAdminDeleteCategory)
	_ = reg.RegisterCallback(cbAdminAddItem, h.cbAdminAddItem)
	_ = reg.RegisterCallback(cbAdminItem, h.cbAdminEditItem)
	_ = reg.RegisterCallback(cbAdminPrice, h.cbAdminEditPrice)
	_ = reg.RegisterCallback(cbAdminDelItem, h.cbAdminDeleteItem)
	_ = reg.RegisterCallback(cbAdminSetting, h.cbAdminEditSetting)
	_ = reg.RegisterCallback(cbNoOp, func(tele.Context) error { return nil })
}

func (h *Handlers) handleStart(c tele.Context) error {
	h.sessions.Clear(c.Sender().ID)
	return tghelpers.SendMD(c, textWelcome, mainMenuKeyboard())
}

func (h *Handlers) handleMenu(c tele.Context) error {
	h.sessions.Clear(c.Sender().ID)
	return h.showCategories(c, false)
}

// handleText catches free text outside of any flow; only the menu button
// is recognized, everything else is ignored.
func (h *Handlers) handleText(c tele.Context) error {
	if c.Text() == menuButtonText {
		return h.handleMenu(c)
	}
	return nil
}

func (h *Handlers) showCategories(c tele.Context, edit bool) error {
	ctx := tghelpers.BuildContext(c)
	cats, err := h.catalog.ListCategories(ctx)
	if err != nil {
		return err
	}
	if edit {
		return tghelpers.EditOrSendMD(c, textChooseCategory, categoriesKeyboard(cats))
	}
	return tghelpers.SendMD(c, textChooseCategory, categoriesKeyboard(cats))
}

func (h *Handlers) handleCart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	view, err := h.carts.Get(ctx, c.Sender().ID)
	if err != nil {
		return err
	}
	return tghelpers.SendMD(c, cartText(view), cartKeyboard(view))
}

func (h *Handlers) cbShowCategories(c tele.Context) error {
	return h.showCategories(c, true)
}

func (h *Handlers) cbShowItems(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	categoryID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	items, err := h.catalog.ListItems(ctx, categoryID)
	if err != nil {
		return err
	}
	return tghelpers.EditOrSendMD(c, textChooseItem, itemsKeyboard(items))
}

func (h *Handlers) cbAddToCart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	itemID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	if _, err := h.carts.Add(ctx, c.Sender().ID, itemID); err != nil {
		return err
	}
	return tghelpers.SendText(c, textAddedToCart)
}

func (h *Handlers) cbRemoveFromCart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	itemID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	if err := h.carts.Remove(ctx, c.Sender().ID, itemID); err != nil {
		return err
	}
	return h.editCart(c)
}

func (h *Handlers) cbShowCart(c tele.Context) error {
	return h.editCart(c)
}

func (h *Handlers) editCart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	view, err := h.carts.Get(ctx, c.Sender().ID)
	if err != nil {
		return err
	}
	return tghelpers.EditOrSendMD(c, cartText(view), cartKeyboard(view))
}

func (h *Handlers) cbClearCart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	if err := h.carts.Clear(ctx, c.Sender().ID); err != nil {
		return err
	}
	return tghelpers.EditOrSendMD(c, textCartCleared, cartKeyboard(cart.View{}))
}

func (h *Handlers) cbCheckout(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	reply, err := h.orders.Begin(ctx, c.Sender().ID)
	if rerr := h.renderOrderReply(c, reply); rerr != nil {
		return rerr
	}
	return err
}

func (h *Handlers) cbChooseDelivery(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	mode := domain.DeliveryMode(callbacks.PayloadString(c))
	reply, err := h.orders.ChooseMode(ctx, c.Sender().ID, mode)
	if rerr := h.renderOrderReply(c, reply); rerr != nil {
		return rerr
	}
	return err
}

func (h *Handlers) cbConfirmOrder(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	reply, err := h.orders.Confirm(ctx, c.Sender().ID)
	if rerr := h.renderOrderReply(c, reply); rerr != nil {
		return rerr
	}
	return err
}

func (h *Handlers) cbCancelOrder(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	reply, err := h.orders.Cancel(ctx, c.Sender().ID)
	if rerr := h.renderOrderReply(c, reply); rerr != nil {
		return rerr
	}
	return err
}

// requireAdmin gates browsing callbacks; mutations are additionally
// gated inside the admin engine itself.
func (h *Handlers) requireAdmin(c tele.Context) bool {
	return h.isAdmin != nil && h.isAdmin(c.Sender().ID)
}

func (h *Handlers) handleAdminPanel(c tele.Context) error {
	if !h.requireAdmin(c) {
		return tghelpers.SendText(c, textDenied)
	}
	h.sessions.Clear(c.Sender().ID)
	return tghelpers.SendMD(c, textAdminPanel, adminPanelKeyboard())
}

func (h *Handlers) cbAdminPanel(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	return tghelpers.EditOrSendMD(c, textAdminPanel, adminPanelKeyboard())
}

func (h *Handlers) cbAdminManageItems(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	cats, err := h.catalog.ListCategories(ctx)
	if err != nil {
		return err
	}
	return tghelpers.EditOrSendMD(c, textAdminManageItems, adminCategoriesKeyboard(cats))
}

func (h *Handlers) cbAdminShowSettings(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	cfg, err := h.settings.Get(ctx)
	if err != nil {
		return err
	}
	return tghelpers.EditOrSendMD(c, settingsText(cfg), adminSettingsKeyboard())
}

func (h *Handlers) cbAdminCategoryItems(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	categoryID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	items, err := h.catalog.ListItems(ctx, categoryID)
	if err != nil {
		return err
	}
	return tghelpers.EditOrSendMD(c, textChooseItem, adminItemsKeyboard(categoryID, items))
}

func (h *Handlers) cbAdminAddCategory(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	reply, err := h.admins.BeginAddCategory(ctx, c.Sender().ID)
	if rerr := h.renderAdminReply(c, reply); rerr != nil {
		return rerr
	}
	return err
}

func (h *Handlers) cbAdminDeleteCategoryMenu(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	cats, err := h.catalog.ListCategories(ctx)
	if err != nil {
		return err
	}
	return tghelpers.EditOrSendMD(c, textAdminDeleteCategory, adminDeleteCategoriesKeyboard(cats))
}

func (h *Handlers) cbAdminDeleteCategory(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	categoryID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	reply, err := h.admins.DeleteCategory(ctx, c.Sender().ID, categoryID)
	if rerr := h.renderAdminReply(c, reply); rerr != nil {
		return rerr
	}
	return err
}

func (h *Handlers) cbAdminAddItem(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	categoryID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	reply, err := h.admins.BeginAddItem(ctx, c.Sender().ID, categoryID)
	if rerr := h.renderAdminReply(c, reply); rerr != nil {
		return rerr
	}
	return err
}

func (h *Handlers) cbAdminEditItem(c tele.Context) error {
	if !h.requireAdmin(c) {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	itemID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	item, err := h.catalog.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	return tghelpers.EditOrSendMD(c, itemEditText(item), adminItemEditKeyboard(item))
}

func (h *Handlers) cbAdminEditPrice(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	itemID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	reply, err := h.admins.BeginReprice(ctx, c.Sender().ID, itemID)
	if rerr := h.renderAdminReply(c, reply); rerr != nil {
		return rerr
	}
	return err
}

func (h *Handlers) cbAdminDeleteItem(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	itemID, err := callbacks.PayloadInt64(c)
	if err != nil {
		return err
	}
	reply, err := h.admins.DeleteItem(ctx, c.Sender().ID, itemID)
	if rerr := h.renderAdminReply(c, reply); rerr != nil {
		return rerr
	}
	return err
}

func (h *Handlers) cbAdminEditSetting(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	key := callbacks.PayloadString(c)
	reply, err := h.admins.BeginSetSetting(ctx, c.Sender().ID, key)
	if rerr := h.renderAdminReply(c, reply); rerr != nil {
		return rerr
	}
	return err
}
