package domain

import (
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMen    Gender = "men"
	GenderWomen  Gender = "women"
	GenderKid    Gender = "kid"
	GenderUnisex Gender = "unisex"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMen, GenderWomen, GenderKid, GenderUnisex:
		return true
	default:
		return false
	}
}

// Product owns its images: they are created, replaced and deleted only
// through the product.
type Product struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"not null;uniqueIndex:idx_products_title" json:"title"`
	Slug        string         `gorm:"not null;uniqueIndex:idx_products_slug" json:"slug"`
	Description *string        `json:"description"`
	Price       float64        `gorm:"not null;default:0" json:"price"`
	Stock       int            `gorm:"not null;default:0" json:"stock"`
	Sizes       StringList     `gorm:"not null" json:"sizes"`
	Gender      Gender         `gorm:"type:text;not null" json:"gender"`
	Tags        StringList     `gorm:"not null;default:'{}'" json:"tags"`
	Images      []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
	OwnerID     uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index" json:"-"`
	Owner       *User          `gorm:"foreignKey:OwnerID" json:"user,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type ProductImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	URL       string    `gorm:"not null" json:"url"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
}

// ProductView is the externally returned shape, with images reduced to URLs.
type ProductView struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Description *string      `json:"description"`
	Price       float64      `json:"price"`
	Stock       int          `json:"stock"`
	Sizes       []string     `json:"sizes"`
	Gender      Gender       `json:"gender"`
	Tags        []string     `json:"tags"`
	Images      []string     `json:"images"`
	User        *UserSummary `json:"user,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (p *Product) ImageURLs() []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.URL)
	}
	return urls
}

func (p *Product) View() ProductView {
	v := ProductView{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Sizes:       nonNil(p.Sizes),
		Gender:      p.Gender,
		Tags:        nonNil(p.Tags),
		Images:      p.ImageURLs(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Owner != nil {
		summary := p.Owner.Summary()
		v.User = &summary
	}
	return v
}

func NewProductImages(urls []string) []ProductImage {
	images := make([]ProductImage, 0, len(urls))
	for _, u := range urls {
		images = append(images, ProductImage{URL: u})
	}
	return images
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return append([]string(nil), in...)
}
