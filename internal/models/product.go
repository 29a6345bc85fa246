package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product представляет объявление продавца о продаже автозапчасти.
// Пока IsAvailable = true, товар виден покупателям и занимает одну
// единицу квоты активной подписки продавца. Удаление объявления
// выполняется снятием флага, а не удалением строки, чтобы не ломать
// ссылки из корзин и сообщений.
type Product struct {
	ID          string          // Уникальный идентификатор товара
	SellerUID   string          // Идентификатор продавца
	CategoryID  *string         // Категория (nil, если не указана)
	Title       string          // Название товара
	Description string          // Описание
	Condition   string          // Состояние: new или used
	Price       decimal.Decimal // Цена, неотрицательная
	City        string          // Город продавца
	Brand       string          // Марка автомобиля
	Model       string          // Модель автомобиля
	Year        *int            // Год выпуска (nil, если не указан)
	PartNumber  string          // Каталожный номер детали
	IsAvailable bool            // Флаг видимости объявления
	ViewsCount  int             // Счётчик просмотров, неотрицательный
	CreatedAt   time.Time       // Дата создания
	UpdatedAt   time.Time       // Дата последнего изменения
	Images      []ProductImage  // Упорядоченный список изображений
}

// Состояния товара.
const (
	ConditionNew  = "new"
	ConditionUsed = "used"
)

// ProductImage представляет изображение товара. У товара может быть
// несколько изображений, не более одного из них помечено как главное.
type ProductImage struct {
	ID        string    // Уникальный идентификатор изображения
	ProductID string    // Идентификатор товара
	ImageURL  string    // Ссылка на изображение
	IsPrimary bool      // Признак главного изображения
	SortOrder int       // Порядок отображения
	CreatedAt time.Time // Дата загрузки
}

// Category представляет категорию автозапчастей (справочник).
type Category struct {
	ID          string    // Уникальный идентификатор категории
	Name        string    // Название
	NameAr      string    // Название на арабском
	Description string    // Описание
	CreatedAt   time.Time // Дата создания
}

// DummyProduct используется для приёма данных товара из JSON-запроса
// при публикации и редактировании объявления.
type DummyProduct struct {
	Title       string   `json:"title" validate:"required"`                     // Название
	Description string   `json:"description,omitempty" validate:"omitempty"`    // Описание
	Condition   string   `json:"condition" validate:"required,oneof=new used"`  // Состояние
	Price       float64  `json:"price" validate:"required,gte=0"`               // Цена (>= 0)
	City        string   `json:"city" validate:"required"`                      // Город
	CategoryID  *string  `json:"category_id,omitempty" validate:"omitempty,uuid"` // Категория
	Brand       string   `json:"brand,omitempty" validate:"omitempty"`          // Марка
	Model       string   `json:"model,omitempty" validate:"omitempty"`          // Модель
	Year        *int     `json:"year,omitempty" validate:"omitempty,gte=1950"`  // Год выпуска
	PartNumber  string   `json:"part_number,omitempty" validate:"omitempty"`    // Каталожный номер
	ImageURLs   []string `json:"image_urls,omitempty" validate:"omitempty,dive,url"` // Ссылки на изображения
}

// SearchFilter представляет параметры фильтрации каталога, передаваемые
// в слой доступа к данным. Все фильтры соединяются через AND, пустое
// значение означает отсутствие ограничения.
type SearchFilter struct {
	Term      string // Текст поиска по названию, описанию и марке
	City      string // Фильтр по городу (точное совпадение)
	Condition string // Фильтр по состоянию (точное совпадение)
}
