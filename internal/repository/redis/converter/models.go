package converter

// ProductInfoRedisModel — JSON-представление товара в кэше.
type ProductInfoRedisModel struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url"`
}

// DetailInfoRedisModel — JSON-представление detail-записи в кэше.
type DetailInfoRedisModel struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	ProductID   string  `json:"product_id"`
}
