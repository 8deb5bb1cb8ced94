package domain

// Category описывает одну товарную категорию каталога: сегменты пути,
// имена коллекций и имя поля внешнего ключа в detail-записях.
type Category struct {
	Slug             string // сегмент пути и имя коллекции товаров (earphones)
	Singular         string // единственное число (earphone)
	DetailSlug       string // сегмент пути detail-записей (earphone-details)
	DetailCollection string // имя коллекции detail-записей (earphone_details)
	FKField          string // имя поля внешнего ключа (earphone_id)
}

// Collection возвращает имя коллекции товаров категории.
func (c Category) Collection() string {
	return c.Slug
}

var categories = []Category{
	{
		Slug:             "earphones",
		Singular:         "earphone",
		DetailSlug:       "earphone-details",
		DetailCollection: "earphone_details",
		FKField:          "earphone_id",
	},
	{
		Slug:             "headphones",
		Singular:         "headphone",
		DetailSlug:       "headphone-details",
		DetailCollection: "headphone_details",
		FKField:          "headphone_id",
	},
	{
		Slug:             "smartwatches",
		Singular:         "smartwatch",
		DetailSlug:       "smartwatch-details",
		DetailCollection: "smartwatch_details",
		FKField:          "smartwatch_id",
	},
}

// Categories возвращает все категории каталога.
func Categories() []Category {
	return categories
}

// CategoryBySlug находит категорию по сегменту пути товаров.
func CategoryBySlug(slug string) (Category, bool) {
	for _, c := range categories {
		if c.Slug == slug {
			return c, true
		}
	}
	return Category{}, false
}
