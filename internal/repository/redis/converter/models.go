package converter

// ProductInfoRedisModel описывает товар в кэше. Цена хранится строкой,
// чтобы не терять точность decimal при сериализации.
type ProductInfoRedisModel struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Price      string  `json:"price"`
	CategoryID int64   `json:"category_id"`
	ImageKey   *string `json:"image_key,omitempty"`
}
