package integration

import (
	"fmt"
	"strings"

	"github.com/erp/grabfood/internal/domain/catalog"
)

// Image models served by the catalog's public image endpoint
const (
	ImageModelTemplate = "product.template"
	ImageModelVariant  = "product.product"
)

// externalImageFields are probed in order after the configured external field
var externalImageFields = []string{"image_url", "photo_url", "website_image_url", "external_image_url", "url_image"}

// ImageResolver builds public image URLs for catalog products
type ImageResolver struct {
	baseURL       string
	externalField string
}

// NewImageResolver creates an ImageResolver. baseURL is normalized; externalField is optional.
func NewImageResolver(baseURL, externalField string) *ImageResolver {
	return &ImageResolver{
		baseURL:       NormalizeBaseURL(baseURL),
		externalField: strings.TrimSpace(externalField),
	}
}

// NormalizeBaseURL fixes a missing colon after the scheme, strips trailing slashes
// and assumes https when no scheme is given.
func NormalizeBaseURL(u string) string {
	u = strings.TrimRight(strings.TrimSpace(u), "/")
	u = strings.Replace(u, "https//", "https://", 1)
	u = strings.Replace(u, "http//", "http://", 1)
	if u != "" && !strings.Contains(u, "://") {
		u = "https://" + u
	}
	return u
}

// ItemImage returns the image for an item: its own URL first, then the product images
func (r *ImageResolver) ItemImage(item *catalog.Item) string {
	if own := strings.TrimSpace(item.ImageURL); isHTTPURL(own) {
		return own
	}
	return r.ProductImage(item.Product)
}

// ProductImage resolves a product image: template sizes largest first, then the first
// variant, then external URL fields. Returns "" when nothing is available.
func (r *ImageResolver) ProductImage(p *catalog.Product) string {
	if p == nil {
		return ""
	}
	if r.baseURL != "" {
		if url := r.cachedImage(ImageModelTemplate, p.ID, p.Images, p.WriteDate.Unix(), p.WriteDate.IsZero()); url != "" {
			return url
		}
		if v := p.FirstVariant(); v != nil {
			if url := r.cachedImage(ImageModelVariant, v.ID, v.Images, v.WriteDate.Unix(), v.WriteDate.IsZero()); url != "" {
				return url
			}
		}
	}

	fields := externalImageFields
	if r.externalField != "" {
		fields = append([]string{r.externalField}, externalImageFields...)
	}
	for _, f := range fields {
		if val := strings.TrimSpace(p.ExternalImageField(f)); isHTTPURL(val) {
			return val
		}
	}
	return ""
}

func (r *ImageResolver) cachedImage(model string, id int64, images catalog.ImageSet, unix int64, noDate bool) string {
	field := images.LargestField()
	if field == "" {
		return ""
	}
	if noDate {
		unix = 0
	}
	return fmt.Sprintf("%s/web/image/%s/%d/%s/product.jpg?unique=%d", r.baseURL, model, id, field, unix)
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "http")
}
