package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Image variant field names, largest first
const (
	ImageField1920 = "image_1920"
	ImageField1024 = "image_1024"
	ImageField512  = "image_512"
	ImageField256  = "image_256"
)

// ImageSet records which cached image sizes exist for a record
type ImageSet struct {
	Has1920 bool
	Has1024 bool
	Has512  bool
	Has256  bool
}

// LargestField returns the largest available image field name, or "" when there is none
func (s ImageSet) LargestField() string {
	switch {
	case s.Has1920:
		return ImageField1920
	case s.Has1024:
		return ImageField1024
	case s.Has512:
		return ImageField512
	case s.Has256:
		return ImageField256
	}
	return ""
}

// Product is a product template from the merchant's catalog
type Product struct {
	ID                int64
	Name              string
	ListPrice         decimal.Decimal
	TaxRate           decimal.Decimal
	Active            bool
	SaleOK            bool
	WebsitePublished  bool
	ProductCategoryID *int64

	WebsiteDescription   string
	EcommerceDescription string
	PublicDescription    string
	SaleDescription      string
	Description          string

	Images           ImageSet
	ImageURL         string
	PhotoURL         string
	WebsiteImageURL  string
	ExternalImageURL string
	URLImage         string

	Variants       []Variant
	AttributeLines []AttributeLine
	WriteDate      time.Time
}

// DescriptionCandidates lists the description fields in export priority order
func (p *Product) DescriptionCandidates() []string {
	return []string{
		p.WebsiteDescription,
		p.EcommerceDescription,
		p.PublicDescription,
		p.SaleDescription,
		p.Description,
	}
}

// PriceWithTax returns the list price including the product tax rate
func (p *Product) PriceWithTax() decimal.Decimal {
	if p.TaxRate.IsZero() {
		return p.ListPrice
	}
	return p.ListPrice.Add(p.ListPrice.Mul(p.TaxRate).Div(decimal.NewFromInt(100)))
}

// ExternalImageField returns the value of a named external image URL field
func (p *Product) ExternalImageField(name string) string {
	switch strings.TrimSpace(name) {
	case "image_url":
		return p.ImageURL
	case "photo_url":
		return p.PhotoURL
	case "website_image_url":
		return p.WebsiteImageURL
	case "external_image_url":
		return p.ExternalImageURL
	case "url_image":
		return p.URLImage
	}
	return ""
}

// FirstVariant returns the first variant or nil
func (p *Product) FirstVariant() *Variant {
	if len(p.Variants) == 0 {
		return nil
	}
	return &p.Variants[0]
}

// Variant is a concrete product variant with its own SKU and barcode
type Variant struct {
	ID        int64
	ProductID int64
	SKU       string
	Barcode   string
	Images    ImageSet
	WriteDate time.Time
}

// AttributeLine is one attribute (size, sugar level, ...) offered on a product
type AttributeLine struct {
	ID            int64
	ProductID     int64
	AttributeID   int64
	AttributeName string
	Values        []AttributeValue
}

// AttributeValue is one choice of an attribute line with its price extra
type AttributeValue struct {
	ID         int64
	Name       string
	PriceExtra decimal.Decimal
}
