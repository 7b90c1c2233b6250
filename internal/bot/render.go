package bot

import (
	"fmt"
	"strings"

	"github.com/streeteda/streeteda/core/telegram/format"
	"github.com/streeteda/streeteda/internal/cart"
	"github.com/streeteda/streeteda/internal/domain"
	"github.com/streeteda/streeteda/internal/order"
)

const (
	textWelcome        = "👋 Здравствуйте!"
	textChooseCategory = "🍴 *Наше меню*\nВыберите категорию:"
	textChooseItem     = "Выберите товар:"
	textAddedToCart    = "✅ Добавлено в корзину!"
	textCartCleared    = "🗑️ Корзина очищена."

	textAskName        = "Отлично! Как вас зовут?"
	textEmptyName      = "❌ Имя не может быть пустым. Попробуйте еще раз."
	textAskPhone       = "Спасибо! Теперь отправьте ваш номер телефона."
	textPhoneAccepted  = "Ваш номер принят."
	textInvalidPhone   = "❌ Неверный формат номера. Попробуйте еще раз."
	textChooseMode     = "Выберите способ получения:"
	textAskAddress     = "Введите адрес доставки:"
	textInvalidAddress = "❌ Адрес слишком короткий. Пожалуйста, введите полный адрес."
	textAskComment     = "Есть ли комментарий к заказу? Если нет, напишите 'нет'."
	textCartEmpty      = "🛒 Ваша корзина пуста."
	textCancelled      = "❌ Заказ отменен."
	textStoreRetry     = "⚠️ Что-то пошло не так. Попробуйте еще раз."

	textAdminPanel          = "🛠️ *Панель администратора*"
	textAdminManageItems    = "Выберите категорию для управления:"
	textAdminDeleteCategory = "Выберите категорию для удаления. ВНИМАНИЕ: это удалит все товары внутри нее."
	textAskCategoryName     = "Введите название новой категории:"
	textDuplicateCategory   = "❌ Категория с таким названием уже существует."
	textAskItemName         = "Введите название нового товара:"
	textAskItemDescription  = "Введите описание товара (или '-' чтобы пропустить):"
	textAskItemPrice        = "Отлично. Теперь введите цену товара (только цифры):"
	textAskItemPhoto        = "Пришлите фото товара (или напишите 'нет'):"
	textAskNewPrice         = "Введите новую цену (только цифры):"
	textAskSettingValue     = "Введите новое значение (только цифры):"
	textInvalidPrice        = "Ошибка: цена должна быть числом. Попробуйте снова."
	textInvalidValue        = "Ошибка: введите только число. Попробуйте снова."
	textCategoryCreated     = "✅ Категория успешно добавлена."
	textCategoryDeleted     = "✅ Категория и все ее товары удалены."
	textItemCreated         = "✅ Товар успешно добавлен!"
	textItemDeleted         = "✅ Товар удален."
	textPriceUpdated        = "✅ Цена успешно обновлена."
	textSettingUpdated      = "✅ Настройка успешно обновлена!"
	textAdminCancelled      = "Действие отменено."
	textDenied              = "⛔ Недостаточно прав."
)

func money(v int64) string {
	return fmt.Sprintf("%d руб.", v)
}

func mdSafe(s string) string {
	out, err := format.EscapeMarkdown(s, 1)
	if err != nil {
		return s
	}
	return out
}

func modeLabel(mode domain.DeliveryMode) string {
	if mode == domain.DeliveryModeDelivery {
		return "🚚 Доставка"
	}
	return "🏃 Самовывоз"
}

// cartText renders the cart view with its computed subtotal.
func cartText(view cart.View) string {
	if view.Empty() {
		return textCartEmpty
	}
	var b strings.Builder
	b.WriteString("🛒 *Ваша корзина:*\n\n")
	for _, l := range view.Lines {
		fmt.Fprintf(&b, "• %s x %d = %s\n", mdSafe(l.Name), l.Quantity, money(l.Total()))
	}
	fmt.Fprintf(&b, "\n💰 *Итого: %s*", money(view.Subtotal))
	return b.String()
}

// reviewText renders the priced snapshot shown for final confirmation.
func reviewText(r *order.Review) string {
	var b strings.Builder
	b.WriteString("🛒 *Ваш заказ:*\n\n")
	for _, l := range r.Lines {
		fmt.Fprintf(&b, "• %s x %d = %s\n", mdSafe(l.Name), l.Quantity, money(l.Total()))
	}
	fmt.Fprintf(&b, "\n*Сумма:* %s\n", money(r.Subtotal))
	if r.Mode == domain.DeliveryModeDelivery {
		if r.Fee > 0 {
			fmt.Fprintf(&b, "🚛 *Доставка:* %s\n", money(r.Fee))
		} else {
			b.WriteString("🚛 *Доставка:* Бесплатно\n")
		}
	}
	fmt.Fprintf(&b, "💰 *Итого к оплате: %s*\n\n", money(r.Total))
	fmt.Fprintf(&b, "👤 *Имя:* %s\n", mdSafe(r.Name))
	fmt.Fprintf(&b, "📞 *Телефон:* %s\n", mdSafe(r.Phone))
	fmt.Fprintf(&b, "*Способ получения:* %s\n", modeLabel(r.Mode))
	if r.Mode == domain.DeliveryModeDelivery {
		fmt.Fprintf(&b, "🏠 *Адрес:* %s\n", mdSafe(r.Address))
	}
	if r.Comment != "" {
		fmt.Fprintf(&b, "💬 *Комментарий:* %s\n", mdSafe(r.Comment))
	}
	b.WriteString("\nВсе верно?")
	return b.String()
}

func orderPlacedText(orderID int64) string {
	return fmt.Sprintf("✅ Спасибо! Ваш заказ *№%d* принят. Мы скоро с вами свяжемся.", orderID)
}

// operatorSummary renders the notification delivered to each recipient.
func operatorSummary(ord order.Committed) string {
	r := ord.Review
	var b strings.Builder
	fmt.Fprintf(&b, "🔔 *Новый заказ №%d!*\n\n", ord.OrderID)
	for _, l := range r.Lines {
		fmt.Fprintf(&b, "• %s x %d = %s\n", mdSafe(l.Name), l.Quantity, money(l.Total()))
	}
	fmt.Fprintf(&b, "\n💰 *Итого: %s*\n\n", money(r.Total))
	fmt.Fprintf(&b, "👤 %s\n📞 %s\n%s\n", mdSafe(r.Name), mdSafe(r.Phone), modeLabel(r.Mode))
	if r.Mode == domain.DeliveryModeDelivery {
		fmt.Fprintf(&b, "🏠 %s\n", mdSafe(r.Address))
	}
	if r.Comment != "" {
		fmt.Fprintf(&b, "💬 %s\n", mdSafe(r.Comment))
	}
	return b.String()
}

func itemEditText(item domain.MenuItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", mdSafe(item.Name))
	if item.Description != "" {
		fmt.Fprintf(&b, "%s\n", mdSafe(item.Description))
	}
	fmt.Fprintf(&b, "💰 %s", money(item.Price))
	return b.String()
}

func settingsText(cfg domain.Settings) string {
	return fmt.Sprintf("⚙️ *Текущие настройки*\n\n🚚 *Стоимость доставки:* %s\n🎉 *Бесплатная доставка от:* %s",
		money(cfg.DeliveryFee), money(cfg.FreeDeliveryThreshold))
}
