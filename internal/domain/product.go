package domain

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type ProductVariant struct {
	Size     string  `json:"size"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

// Product is the canonical product shape. ID is the backend's opaque string id;
// the numeric id used by the legacy REST surface is derived from it on demand
// (see internal/identity) and never stored here.
type Product struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Price           float64          `json:"price"`
	ImageURL        string           `json:"imageUrl,omitempty"`
	Available       bool             `json:"available"`
	PreparationTime int              `json:"preparationTime,omitempty"`
	RestaurantID    string           `json:"restaurantId,omitempty"`
	Category        Category         `json:"category"`
	Variants        []ProductVariant `json:"variants,omitempty"`
}

// InCategory reports whether the product belongs to the given category,
// matched by id or by name.
func (p Product) InCategory(category string) bool {
	return p.Category.ID == category || p.Category.Name == category
}

// Variant returns the variant with the given size, if any.
func (p Product) Variant(size string) (ProductVariant, bool) {
	for _, v := range p.Variants {
		if v.Size == size {
			return v, true
		}
	}
	return ProductVariant{}, false
}

type CreateProductInput struct {
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Price           float64          `json:"price"`
	ImageURL        string           `json:"imageUrl,omitempty"`
	Available       bool             `json:"available"`
	PreparationTime int              `json:"preparationTime,omitempty"`
	CategoryID      string           `json:"categoryId"`
	RestaurantID    string           `json:"restaurantId"`
	Variants        []ProductVariant `json:"variants,omitempty"`
}

// UpdateProductInput carries partial updates; nil fields are left untouched.
type UpdateProductInput struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *float64         `json:"price,omitempty"`
	ImageURL    *string          `json:"imageUrl,omitempty"`
	Available   *bool            `json:"available,omitempty"`
	CategoryID  *string          `json:"categoryId,omitempty"`
	Variants    []ProductVariant `json:"variants,omitempty"`
}

type CreateCategoryInput struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	RestaurantID string `json:"restaurantId"`
}
