package dbmysql

const (
	ProductTypeEyeglasses = "eyeglasses"
	ProductTypeSunglasses = "sunglasses"
)

type Product struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:120;not null" json:"name"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	ImageURL    string  `gorm:"size:300" json:"image_url"`
	ProductType string  `gorm:"size:50;index" json:"product_type"`

	// try-on overlay
	VREnabled  bool   `gorm:"default:false" json:"vr_enabled"`
	VRImageURL string `gorm:"size:300" json:"vr_image_url,omitempty"`
}

func ValidProductType(t string) bool {
	return t == ProductTypeEyeglasses || t == ProductTypeSunglasses
}
