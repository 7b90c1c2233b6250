package bot

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"log/slog"

	"github.com/streeteda/streeteda/core/logger"
	"github.com/streeteda/streeteda/internal/domain"
)

type seedItem struct {
	name        string
	description string
	price       int64
	category    string
}

var seedCategories = []string{"Шаурма", "Люля-кебаб", "Гарниры", "Добавки", "Другое"}

var seedItems = []seedItem{
	{"Стандартная (400 грамм)", "Классическая шаурма", 230, "Шаурма"},
	{"Мини (300 грамм)", "Уменьшенная порция классики", 200, "Шаурма"},
	{"Сырная шаурма (500 грамм)", "Шаурма с добавлением сыра", 250, "Шаурма"},
	{"Барбекю шаурма (500 грамм)", "С фирменным соусом барбекю", 250, "Шаурма"},
	{"Гранатовая шаурма (500 грамм)", "С пикантным гранатовым соусом", 250, "Шаурма"},
	{"По-мексикански шаурма (500 грамм)", "Острая шаурма с халапеньо", 250, "Шаурма"},
	{"ХХЛ шаурма (600 грамм)", "Огромная и сытная", 290, "Шаурма"},
	{"Шаурма без мяса (Веган)", "Свежие овощи и соус в лаваше", 180, "Шаурма"},
	{"Гиро (500 грамм)", "Греческая шаурма с картофелем фри внутри", 250, "Шаурма"},
	{"Сосиска в лаваше", "Сосиска с овощами и соусом", 170, "Шаурма"},
	{"Шаурма с наггетсами", "Шаурма с куриными наггетсами", 270, "Шаурма"},
	{"Люля-кебаб из свинины в лаваше", "", 300, "Люля-кебаб"},
	{"Люля-кебаб из говядины в лаваше", "", 300, "Люля-кебаб"},
	{"Картофель фри (100 гр)", "Классический картофель фри", 100, "Гарниры"},
	{"Картофель по-деревенски (100 гр)", "Аппетитные дольки картофеля", 100, "Гарниры"},
	{"Наггетсы (5 шт)", "Куриные наггетсы", 100, "Гарниры"},
	{"Бургер-Хит", "Наш фирменный бургер", 300, "Другое"},
	{"Доп. Картофель фри", "", 30, "Добавки"},
	{"Доп. Огурцы соленые", "", 30, "Добавки"},
	{"Доп. Сыр", "", 30, "Добавки"},
	{"Доп. Халапеньо", "", 30, "Добавки"},
	{"Доп. Мясо", "", 70, "Добавки"},
	{"Доп. Сосиска", "", 40, "Добавки"},
}

const (
	defaultDeliveryFee           = 400
	defaultFreeDeliveryThreshold = 1000
)

// SeedMenu populates an empty catalog with the initial menu and ensures
// both pricing settings exist.
func SeedMenu(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`,
		domain.SettingDeliveryFee, defaultDeliveryFee); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`,
		domain.SettingFreeDeliveryThreshold, defaultFreeDeliveryThreshold); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}

	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM categories`); err != nil {
		return fmt.Errorf("seed count: %w", err)
	}
	if count > 0 {
		logger.SEED.Info("seed",
			slog.String("event", "skip"),
			slog.Int("categories", count),
		)
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	catIDs := make(map[string]int64, len(seedCategories))
	for _, name := range seedCategories {
		var id int64
		if err := tx.GetContext(ctx, &id,
			`INSERT INTO categories (name) VALUES ($1) RETURNING id`, name); err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}
		catIDs[name] = id
	}
	for _, it := range seedItems {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO menu_items (name, description, price, category_id) VALUES ($1, $2, $3, $4)`,
			it.name, it.description, it.price, catIDs[it.category]); err != nil {
			return fmt.Errorf("seed item %q: %w", it.name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	logger.SEED.Info("seed",
		slog.String("event", "complete"),
		slog.Int("categories", len(seedCategories)),
		slog.Int("items", len(seedItems)),
	)
	return nil
}
