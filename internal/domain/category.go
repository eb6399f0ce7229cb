package domain

import "strconv"

// NoCategory — значение плейсхолдера «Choose category» в выпадающем списке.
// Ни одна категория не имеет такого идентификатора.
const NoCategory = ""

// Category описывает категорию продукта, полученную из бэкенда
type Category struct {
	ID   int64
	Name string
}

func NewCategory(id int64, name string) Category {
	return Category{
		ID:   id,
		Name: name,
	}
}

// Value возвращает значение опции select для категории.
func (c Category) Value() string {
	return strconv.FormatInt(c.ID, 10)
}

// Categories — список категорий в порядке, в котором его вернул бэкенд.
type Categories []Category

// Find ищет категорию по значению из select. Сравнение строковое, как у опций формы,
// поэтому плейсхолдер и значения вида "01" не совпадают ни с одной категорией.
func (cs Categories) Find(selected string) (Category, bool) {
	if selected == NoCategory {
		return Category{}, false
	}

	for _, c := range cs {
		if c.Value() == selected {
			return c, true
		}
	}

	return Category{}, false
}
