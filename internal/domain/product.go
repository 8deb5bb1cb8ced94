package domain

// Product описывает товар каталога
type Product struct {
	ID       string // hex-представление ObjectID, присваивается хранилищем
	Name     string
	Price    float64 // нормализованная цена
	ImageURL string
}

func NewProduct(name string, price float64, imageURL string) *Product {
	return &Product{
		Name:     name,
		Price:    price,
		ImageURL: imageURL,
	}
}
