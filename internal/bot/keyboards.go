package bot

import (
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/streeteda/streeteda/core/telegram/keyboard"
	"github.com/streeteda/streeteda/internal/cart"
	"github.com/streeteda/streeteda/internal/domain"
)

// Callback uniques. Button payloads carry entity ids.
const (
	cbCategory  = "cat"
	cbItem      = "item"
	cbRemove    = "rem"
	cbViewCart  = "view_cart"
	cbToMenu    = "to_menu"
	cbCheckout  = "checkout"
	cbClearCart = "clear_cart"
	cbConfirm   = "confirm_order"
	cbCancel    = "cancel_order"
	cbDelivery  = "delivery"

	cbAdminPanel    = "adm_panel"
	cbAdminItems    = "adm_items"
	cbAdminSettings = "adm_settings"
	cbAdminCategory = "adm_cat"
	cbAdminAddCat   = "adm_add_cat"
	cbAdminDelCats  = "adm_del_cats"
	cbAdminDelCat   = "adm_del_cat"
	cbAdminAddItem  = "adm_add_item"
	cbAdminItem     = "adm_item"
	cbAdminPrice    = "adm_price"
	cbAdminDelItem  = "adm_del_item"
	cbAdminSetting  = "adm_setting"
	cbNoOp          = "no_op"
)

const menuButtonText = "🍴 Меню"

func mainMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{menuButtonText})
}

func contactKeyboard() *tele.ReplyMarkup {
	return keyboard.ContactRequest("📱 Отправить мой контакт")
}

func categoriesKeyboard(cats []domain.Category) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(cats)+1)
	for _, c := range cats {
		rows = append(rows, []keyboard.InlineBtn{
			{Text: c.Name, Unique: cbCategory, Data: strconv.FormatInt(c.ID, 10)},
		})
	}
	rows = append(rows, []keyboard.InlineBtn{{Text: "🛒 Корзина", Unique: cbViewCart}})
	return keyboard.InlineButtonsRows(rows...)
}

func itemsKeyboard(items []domain.MenuItem) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(items)+1)
	for _, it := range items {
		rows = append(rows, []keyboard.InlineBtn{
			{
				Text:   fmt.Sprintf("%s - %d руб.", it.Name, it.Price),
				Unique: cbItem,
				Data:   strconv.FormatInt(it.ID, 10),
			},
		})
	}
	rows = append(rows, []keyboard.InlineBtn{{Text: "⬅️ Назад к категориям", Unique: cbToMenu}})
	return keyboard.InlineButtonsRows(rows...)
}

func cartKeyboard(view cart.View) *tele.ReplyMarkup {
	if view.Empty() {
		return keyboard.InlineButtonsRows([]keyboard.InlineBtn{{Text: "⬅️ В меню", Unique: cbToMenu}})
	}
	rows := make([][]keyboard.InlineBtn, 0, len(view.Lines)+2)
	for _, l := range view.Lines {
		rows = append(rows, []keyboard.InlineBtn{
			{
				Text:   fmt.Sprintf("❌ Удалить %s", l.Name),
				Unique: cbRemove,
				Data:   strconv.FormatInt(l.ItemID, 10),
			},
		})
	}
	rows = append(rows,
		[]keyboard.InlineBtn{{Text: "✅ Оформить заказ", Unique: cbCheckout}},
		[]keyboard.InlineBtn{
			{Text: "🗑️ Очистить", Unique: cbClearCart},
			{Text: "⬅️ В меню", Unique: cbToMenu},
		},
	)
	return keyboard.InlineButtonsRows(rows...)
}

func deliveryModeKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "🏃 Самовывоз", Unique: cbDelivery, Data: string(domain.DeliveryModeTakeaway)},
		{Text: "🚚 Доставка", Unique: cbDelivery, Data: string(domain.DeliveryModeDelivery)},
	})
}

func confirmKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "✅ Да, подтвердить", Unique: cbConfirm}},
		[]keyboard.InlineBtn{{Text: "❌ Отмена", Unique: cbCancel}},
	)
}

func adminPanelKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "Управление товарами", Unique: cbAdminItems}},
		[]keyboard.InlineBtn{{Text: "⚙️ Настройки", Unique: cbAdminSettings}},
	)
}

func adminCategoriesKeyboard(cats []domain.Category) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(cats)+3)
	for _, c := range cats {
		rows = append(rows, []keyboard.InlineBtn{
			{Text: c.Name, Unique: cbAdminCategory, Data: strconv.FormatInt(c.ID, 10)},
		})
	}
	rows = append(rows,
		[]keyboard.InlineBtn{{Text: "➕ Добавить категорию", Unique: cbAdminAddCat}},
		[]keyboard.InlineBtn{{Text: "➖ Удалить категорию", Unique: cbAdminDelCats}},
		[]keyboard.InlineBtn{{Text: "⬅️ Назад", Unique: cbAdminPanel}},
	)
	return keyboard.InlineButtonsRows(rows...)
}

func adminItemsKeyboard(categoryID int64, items []domain.MenuItem) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(items)+2)
	for _, it := range items {
		rows = append(rows, []keyboard.InlineBtn{
			{
				Text:   fmt.Sprintf("%s - %dр", it.Name, it.Price),
				Unique: cbAdminItem,
				Data:   strconv.FormatInt(it.ID, 10),
			},
		})
	}
	rows = append(rows,
		[]keyboard.InlineBtn{{Text: "➕ Добавить товар", Unique: cbAdminAddItem, Data: strconv.FormatInt(categoryID, 10)}},
		[]keyboard.InlineBtn{{Text: "⬅️ Назад", Unique: cbAdminItems}},
	)
	return keyboard.InlineButtonsRows(rows...)
}

func adminItemEditKeyboard(item domain.MenuItem) *tele.ReplyMarkup {
	id := strconv.FormatInt(item.ID, 10)
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "✏️ Изменить цену", Unique: cbAdminPrice, Data: id}},
		[]keyboard.InlineBtn{{Text: "🗑️ Удалить товар", Unique: cbAdminDelItem, Data: id}},
		[]keyboard.InlineBtn{{Text: "⬅️ Назад", Unique: cbAdminCategory, Data: strconv.FormatInt(item.CategoryID, 10)}},
	)
}

func adminSettingsKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "✏️ Изменить стоимость доставки", Unique: cbAdminSetting, Data: domain.SettingDeliveryFee}},
		[]keyboard.InlineBtn{{Text: "✏️ Изменить порог бесплатной доставки", Unique: cbAdminSetting, Data: domain.SettingFreeDeliveryThreshold}},
		[]keyboard.InlineBtn{{Text: "⬅️ Назад", Unique: cbAdminPanel}},
	)
}

func adminDeleteCategoriesKeyboard(cats []domain.Category) *tele.ReplyMarkup {
	if len(cats) == 0 {
		return keyboard.InlineButtonsRows(
			[]keyboard.InlineBtn{{Text: "Нет категорий для удаления", Unique: cbNoOp}},
			[]keyboard.InlineBtn{{Text: "⬅️ Назад", Unique: cbAdminItems}},
		)
	}
	rows := make([][]keyboard.InlineBtn, 0, len(cats)+1)
	for _, c := range cats {
		rows = append(rows, []keyboard.InlineBtn{
			{Text: fmt.Sprintf("❌ %s", c.Name), Unique: cbAdminDelCat, Data: strconv.FormatInt(c.ID, 10)},
		})
	}
	rows = append(rows, []keyboard.InlineBtn{{Text: "⬅️ Назад", Unique: cbAdminItems}})
	return keyboard.InlineButtonsRows(rows...)
}
