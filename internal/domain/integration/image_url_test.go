package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/erp/grabfood/internal/domain/catalog"
)

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"https://shop.example.com/", "https://shop.example.com"},
		{"https//shop.example.com", "https://shop.example.com"},
		{"http//shop.example.com//", "http://shop.example.com"},
		{"shop.example.com", "https://shop.example.com"},
		{"  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeBaseURL(tt.in))
		})
	}
}

func TestImageResolver_ProductImage(t *testing.T) {
	written := time.Unix(1700000000, 0)

	t.Run("largest template image", func(t *testing.T) {
		r := NewImageResolver("https://shop.example.com/", "")
		p := &catalog.Product{ID: 5, Images: catalog.ImageSet{Has1024: true, Has256: true}, WriteDate: written}
		assert.Equal(t, "https://shop.example.com/web/image/product.template/5/image_1024/product.jpg?unique=1700000000", r.ProductImage(p))
	})

	t.Run("variant image when template has none", func(t *testing.T) {
		r := NewImageResolver("https://shop.example.com", "")
		p := &catalog.Product{ID: 5, Variants: []catalog.Variant{{ID: 9, Images: catalog.ImageSet{Has512: true}}}}
		assert.Equal(t, "https://shop.example.com/web/image/product.product/9/image_512/product.jpg?unique=0", r.ProductImage(p))
	})

	t.Run("configured external field first", func(t *testing.T) {
		r := NewImageResolver("", "photo_url")
		p := &catalog.Product{ImageURL: "https://cdn/a.jpg", PhotoURL: "https://cdn/b.jpg"}
		assert.Equal(t, "https://cdn/b.jpg", r.ProductImage(p))
	})

	t.Run("external fields in order without base URL", func(t *testing.T) {
		r := NewImageResolver("", "")
		p := &catalog.Product{Images: catalog.ImageSet{Has1920: true}, URLImage: "http://cdn/c.jpg", PhotoURL: "not a url"}
		assert.Equal(t, "http://cdn/c.jpg", r.ProductImage(p))
	})

	t.Run("nothing available", func(t *testing.T) {
		r := NewImageResolver("https://shop.example.com", "")
		assert.Equal(t, "", r.ProductImage(&catalog.Product{}))
		assert.Equal(t, "", r.ProductImage(nil))
	})
}

func TestImageResolver_ItemImage(t *testing.T) {
	r := NewImageResolver("https://shop.example.com", "")
	product := &catalog.Product{ID: 1, Images: catalog.ImageSet{Has256: true}}

	own := &catalog.Item{ImageURL: "https://cdn/own.jpg", Product: product}
	assert.Equal(t, "https://cdn/own.jpg", r.ItemImage(own))

	inherited := &catalog.Item{ImageURL: "/relative.jpg", Product: product}
	assert.Contains(t, r.ItemImage(inherited), "/product.template/1/image_256/")
}
