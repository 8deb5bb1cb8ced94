package domain

// Detail описывает расширенную запись товара.
// ProductID ссылается на Product.ID родительской категории; связь проверяется
// приложением при создании, хранилище её не обеспечивает.
type Detail struct {
	ID          string
	Name        string
	Description string
	Price       float64
	ImageURL    string
	ProductID   string
}

func NewDetail(name, description string, price float64, imageURL, productID string) *Detail {
	return &Detail{
		Name:        name,
		Description: description,
		Price:       price,
		ImageURL:    imageURL,
		ProductID:   productID,
	}
}
