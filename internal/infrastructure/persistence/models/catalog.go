package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/erp/grabfood/internal/domain/catalog"
)

// ---------------------------------------------------------------------------
// Menu tree
// ---------------------------------------------------------------------------

// MenuModel is the persistence model for the Menu aggregate root.
type MenuModel struct {
	ID                int64          `gorm:"primaryKey;autoIncrement"`
	Name              string         `gorm:"type:varchar(200);not null"`
	MerchantID        string         `gorm:"type:varchar(100);index"`
	PartnerMerchantID string         `gorm:"type:varchar(100);index"`
	IntegrationStatus string         `gorm:"type:varchar(20)"`
	CurrencyCode      string         `gorm:"type:varchar(10);not null;default:'SGD'"`
	CurrencySymbol    string         `gorm:"type:varchar(10);not null;default:'S$'"`
	CurrencyExponent  int            `gorm:"not null;default:2"`
	LastMenuRequestID string         `gorm:"type:varchar(100)"`
	LastMenuJobID     string         `gorm:"type:varchar(100)"`
	Sections          []SectionModel `gorm:"foreignKey:MenuID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time      `gorm:"not null"`
	UpdatedAt         time.Time      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MenuModel) TableName() string {
	return "menus"
}

// ToDomain converts the persistence model to a domain Menu, including loaded sections
func (m *MenuModel) ToDomain() *catalog.Menu {
	menu := &catalog.Menu{
		ID:                m.ID,
		Name:              m.Name,
		MerchantID:        m.MerchantID,
		PartnerMerchantID: m.PartnerMerchantID,
		IntegrationStatus: catalog.IntegrationStatus(m.IntegrationStatus),
		CurrencyCode:      m.CurrencyCode,
		CurrencySymbol:    m.CurrencySymbol,
		CurrencyExponent:  m.CurrencyExponent,
		LastMenuRequestID: m.LastMenuRequestID,
		LastMenuJobID:     m.LastMenuJobID,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	if len(m.Sections) > 0 {
		menu.Sections = make([]catalog.Section, len(m.Sections))
		for i := range m.Sections {
			menu.Sections[i] = m.Sections[i].ToDomain()
		}
	}
	return menu
}

// FromDomain populates the header columns from a domain Menu. Sections are not copied.
func (m *MenuModel) FromDomain(menu *catalog.Menu) {
	m.ID = menu.ID
	m.Name = menu.Name
	m.MerchantID = menu.MerchantID
	m.PartnerMerchantID = menu.PartnerMerchantID
	m.IntegrationStatus = string(menu.IntegrationStatus)
	m.CurrencyCode = menu.CurrencyCode
	m.CurrencySymbol = menu.CurrencySymbol
	m.CurrencyExponent = menu.CurrencyExponent
	m.LastMenuRequestID = menu.LastMenuRequestID
	m.LastMenuJobID = menu.LastMenuJobID
	m.CreatedAt = menu.CreatedAt
	m.UpdatedAt = menu.UpdatedAt
}

// SectionModel is the persistence model for a menu section
type SectionModel struct {
	ID           int64           `gorm:"primaryKey;autoIncrement"`
	MenuID       int64           `gorm:"not null;index"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Sequence     int             `gorm:"not null;default:1"`
	ServiceHours string          `gorm:"type:text"`
	Categories   []CategoryModel `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (SectionModel) TableName() string {
	return "menu_sections"
}

// ToDomain converts the persistence model to a domain Section
func (m *SectionModel) ToDomain() catalog.Section {
	s := catalog.Section{
		ID:           m.ID,
		MenuID:       m.MenuID,
		Name:         m.Name,
		Sequence:     m.Sequence,
		ServiceHours: m.ServiceHours,
	}
	if len(m.Categories) > 0 {
		s.Categories = make([]catalog.Category, len(m.Categories))
		for i := range m.Categories {
			s.Categories[i] = m.Categories[i].ToDomain()
		}
	}
	return s
}

// CategoryModel is the persistence model for a menu category
type CategoryModel struct {
	ID                int64       `gorm:"primaryKey;autoIncrement"`
	SectionID         int64       `gorm:"not null;index"`
	Name              string      `gorm:"type:varchar(200);not null"`
	Sequence          int         `gorm:"not null;default:1"`
	AvailableStatus   string      `gorm:"type:varchar(20)"`
	ProductCategoryID *int64      `gorm:"index"`
	Items             []ItemModel `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "menu_categories"
}

// ToDomain converts the persistence model to a domain Category
func (m *CategoryModel) ToDomain() catalog.Category {
	c := catalog.Category{
		ID:                m.ID,
		SectionID:         m.SectionID,
		Name:              m.Name,
		Sequence:          m.Sequence,
		AvailableStatus:   m.AvailableStatus,
		ProductCategoryID: m.ProductCategoryID,
	}
	if len(m.Items) > 0 {
		c.Items = make([]catalog.Item, len(m.Items))
		for i := range m.Items {
			c.Items[i] = *m.Items[i].ToDomain()
		}
	}
	return c
}

// ItemModel is the persistence model for a menu item
type ItemModel struct {
	ID              int64                `gorm:"primaryKey;autoIncrement"`
	CategoryID      int64                `gorm:"not null;index"`
	ProductID       int64                `gorm:"not null;index"`
	VariantID       *int64               `gorm:"index"`
	Product         *ProductModel        `gorm:"foreignKey:ProductID"`
	Name            string               `gorm:"type:varchar(200)"`
	ExternalCode    string               `gorm:"type:varchar(100);index"`
	Sequence        int                  `gorm:"not null;default:1"`
	AvailableStatus string               `gorm:"type:varchar(20)"`
	Description     string               `gorm:"type:text"`
	ImageURL        string               `gorm:"type:varchar(500)"`
	Price           decimal.NullDecimal  `gorm:"type:numeric(18,4)"`
	GrabPrice       decimal.Decimal      `gorm:"type:numeric(18,4);not null;default:0"`
	GSTRate         decimal.NullDecimal  `gorm:"column:gst_rate;type:numeric(8,4)"`
	UseGrabPrice    bool                 `gorm:"not null;default:false"`
	ModifierGroups  []ModifierGroupModel `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	UpdatedAt       time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ItemModel) TableName() string {
	return "menu_items"
}

// ToDomain converts the persistence model to a domain Item
func (m *ItemModel) ToDomain() *catalog.Item {
	item := &catalog.Item{
		ID:              m.ID,
		CategoryID:      m.CategoryID,
		ProductID:       m.ProductID,
		VariantID:       m.VariantID,
		Name:            m.Name,
		ExternalCode:    m.ExternalCode,
		Sequence:        m.Sequence,
		AvailableStatus: m.AvailableStatus,
		Description:     m.Description,
		ImageURL:        m.ImageURL,
		Price:           m.Price,
		GrabPrice:       m.GrabPrice,
		GSTRate:         m.GSTRate,
		UseGrabPrice:    m.UseGrabPrice,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.Product != nil {
		item.Product = m.Product.ToDomain()
	}
	if len(m.ModifierGroups) > 0 {
		item.ModifierGroups = make([]catalog.ModifierGroup, len(m.ModifierGroups))
		for i := range m.ModifierGroups {
			item.ModifierGroups[i] = m.ModifierGroups[i].ToDomain()
		}
	}
	return item
}

// FromDomain populates the item columns. Modifier groups are not copied.
func (m *ItemModel) FromDomain(item *catalog.Item) {
	m.ID = item.ID
	m.CategoryID = item.CategoryID
	m.ProductID = item.ProductID
	m.VariantID = item.VariantID
	m.Name = item.Name
	m.ExternalCode = item.ExternalCode
	m.Sequence = item.Sequence
	m.AvailableStatus = item.AvailableStatus
	m.Description = item.Description
	m.ImageURL = item.ImageURL
	m.Price = item.Price
	m.GrabPrice = item.GrabPrice
	m.GSTRate = item.GSTRate
	m.UseGrabPrice = item.UseGrabPrice
	m.UpdatedAt = item.UpdatedAt
}

// ModifierGroupModel is the persistence model for a modifier group
type ModifierGroupModel struct {
	ID                int64           `gorm:"primaryKey;autoIncrement"`
	ItemID            int64           `gorm:"not null;index"`
	Name              string          `gorm:"type:varchar(200);not null"`
	Code              string          `gorm:"type:varchar(100)"`
	AvailableStatus   string          `gorm:"type:varchar(20)"`
	SelectionRangeMin *int            `gorm:"column:selection_range_min"`
	SelectionRangeMax *int            `gorm:"column:selection_range_max"`
	Modifiers         []ModifierModel `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ModifierGroupModel) TableName() string {
	return "menu_modifier_groups"
}

// ToDomain converts the persistence model to a domain ModifierGroup
func (m *ModifierGroupModel) ToDomain() catalog.ModifierGroup {
	g := catalog.ModifierGroup{
		ID:                m.ID,
		ItemID:            m.ItemID,
		Name:              m.Name,
		Code:              m.Code,
		AvailableStatus:   m.AvailableStatus,
		SelectionRangeMin: m.SelectionRangeMin,
		SelectionRangeMax: m.SelectionRangeMax,
	}
	if len(m.Modifiers) > 0 {
		g.Modifiers = make([]catalog.Modifier, len(m.Modifiers))
		for i := range m.Modifiers {
			g.Modifiers[i] = m.Modifiers[i].ToDomain()
		}
	}
	return g
}

// ModifierGroupModelFromDomain builds a group model with its modifiers for insertion
func ModifierGroupModelFromDomain(itemID int64, g *catalog.ModifierGroup) *ModifierGroupModel {
	m := &ModifierGroupModel{
		ItemID:            itemID,
		Name:              g.Name,
		Code:              g.Code,
		AvailableStatus:   g.AvailableStatus,
		SelectionRangeMin: g.SelectionRangeMin,
		SelectionRangeMax: g.SelectionRangeMax,
	}
	for _, mod := range g.Modifiers {
		m.Modifiers = append(m.Modifiers, ModifierModel{
			Name:            mod.Name,
			Code:            mod.Code,
			AvailableStatus: mod.AvailableStatus,
			Price:           mod.Price,
			Barcode:         mod.Barcode,
		})
	}
	return m
}

// ModifierModel is the persistence model for a modifier
type ModifierModel struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	GroupID         int64           `gorm:"not null;index"`
	Name            string          `gorm:"type:varchar(200);not null"`
	Code            string          `gorm:"type:varchar(100)"`
	AvailableStatus string          `gorm:"type:varchar(20)"`
	Price           decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	Barcode         string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (ModifierModel) TableName() string {
	return "menu_modifiers"
}

// ToDomain converts the persistence model to a domain Modifier
func (m *ModifierModel) ToDomain() catalog.Modifier {
	return catalog.Modifier{
		ID:              m.ID,
		GroupID:         m.GroupID,
		Name:            m.Name,
		Code:            m.Code,
		AvailableStatus: m.AvailableStatus,
		Price:           m.Price,
		Barcode:         m.Barcode,
	}
}

// ---------------------------------------------------------------------------
// Catalog products
// ---------------------------------------------------------------------------

// ProductModel is the persistence model for a catalog product template
type ProductModel struct {
	ID                int64           `gorm:"primaryKey;autoIncrement"`
	Name              string          `gorm:"type:varchar(200);not null"`
	ListPrice         decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	TaxRate           decimal.Decimal `gorm:"type:numeric(8,4);not null;default:0"`
	Active            bool            `gorm:"not null;default:true"`
	SaleOK            bool            `gorm:"column:sale_ok;not null;default:true"`
	WebsitePublished  bool            `gorm:"not null;default:false"`
	ProductCategoryID *int64          `gorm:"index"`

	WebsiteDescription   string `gorm:"type:text"`
	EcommerceDescription string `gorm:"type:text"`
	PublicDescription    string `gorm:"type:text"`
	SaleDescription      string `gorm:"type:text"`
	Description          string `gorm:"type:text"`

	HasImage1920     bool   `gorm:"column:has_image_1920;not null;default:false"`
	HasImage1024     bool   `gorm:"column:has_image_1024;not null;default:false"`
	HasImage512      bool   `gorm:"column:has_image_512;not null;default:false"`
	HasImage256      bool   `gorm:"column:has_image_256;not null;default:false"`
	ImageURL         string `gorm:"type:varchar(500)"`
	PhotoURL         string `gorm:"type:varchar(500)"`
	WebsiteImageURL  string `gorm:"type:varchar(500)"`
	ExternalImageURL string `gorm:"type:varchar(500)"`
	URLImage         string `gorm:"column:url_image;type:varchar(500)"`

	Variants       []VariantModel       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	AttributeLines []AttributeLineModel `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	WriteDate      time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		ID:                   m.ID,
		Name:                 m.Name,
		ListPrice:            m.ListPrice,
		TaxRate:              m.TaxRate,
		Active:               m.Active,
		SaleOK:               m.SaleOK,
		WebsitePublished:     m.WebsitePublished,
		ProductCategoryID:    m.ProductCategoryID,
		WebsiteDescription:   m.WebsiteDescription,
		EcommerceDescription: m.EcommerceDescription,
		PublicDescription:    m.PublicDescription,
		SaleDescription:      m.SaleDescription,
		Description:          m.Description,
		Images: catalog.ImageSet{
			Has1920: m.HasImage1920,
			Has1024: m.HasImage1024,
			Has512:  m.HasImage512,
			Has256:  m.HasImage256,
		},
		ImageURL:         m.ImageURL,
		PhotoURL:         m.PhotoURL,
		WebsiteImageURL:  m.WebsiteImageURL,
		ExternalImageURL: m.ExternalImageURL,
		URLImage:         m.URLImage,
		WriteDate:        m.WriteDate,
	}
	for i := range m.Variants {
		p.Variants = append(p.Variants, m.Variants[i].ToDomain())
	}
	for i := range m.AttributeLines {
		p.AttributeLines = append(p.AttributeLines, m.AttributeLines[i].ToDomain())
	}
	return p
}

// FromDomain populates the model, including variants and attribute lines
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.ID = p.ID
	m.Name = p.Name
	m.ListPrice = p.ListPrice
	m.TaxRate = p.TaxRate
	m.Active = p.Active
	m.SaleOK = p.SaleOK
	m.WebsitePublished = p.WebsitePublished
	m.ProductCategoryID = p.ProductCategoryID
	m.WebsiteDescription = p.WebsiteDescription
	m.EcommerceDescription = p.EcommerceDescription
	m.PublicDescription = p.PublicDescription
	m.SaleDescription = p.SaleDescription
	m.Description = p.Description
	m.HasImage1920 = p.Images.Has1920
	m.HasImage1024 = p.Images.Has1024
	m.HasImage512 = p.Images.Has512
	m.HasImage256 = p.Images.Has256
	m.ImageURL = p.ImageURL
	m.PhotoURL = p.PhotoURL
	m.WebsiteImageURL = p.WebsiteImageURL
	m.ExternalImageURL = p.ExternalImageURL
	m.URLImage = p.URLImage
	m.WriteDate = p.WriteDate

	m.Variants = make([]VariantModel, len(p.Variants))
	for i, v := range p.Variants {
		m.Variants[i] = VariantModel{
			ID:           v.ID,
			ProductID:    p.ID,
			SKU:          v.SKU,
			Barcode:      v.Barcode,
			HasImage1920: v.Images.Has1920,
			HasImage1024: v.Images.Has1024,
			HasImage512:  v.Images.Has512,
			HasImage256:  v.Images.Has256,
			WriteDate:    v.WriteDate,
		}
	}
	m.AttributeLines = make([]AttributeLineModel, len(p.AttributeLines))
	for i, l := range p.AttributeLines {
		line := AttributeLineModel{
			ID:            l.ID,
			ProductID:     p.ID,
			AttributeID:   l.AttributeID,
			AttributeName: l.AttributeName,
		}
		for _, v := range l.Values {
			line.Values = append(line.Values, AttributeValueModel{
				ID:         v.ID,
				LineID:     l.ID,
				Name:       v.Name,
				PriceExtra: v.PriceExtra,
			})
		}
		m.AttributeLines[i] = line
	}
}

// VariantModel is the persistence model for a product variant
type VariantModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	ProductID    int64     `gorm:"not null;index"`
	SKU          string    `gorm:"column:sku;type:varchar(100);index"`
	Barcode      string    `gorm:"type:varchar(100);index"`
	HasImage1920 bool      `gorm:"column:has_image_1920;not null;default:false"`
	HasImage1024 bool      `gorm:"column:has_image_1024;not null;default:false"`
	HasImage512  bool      `gorm:"column:has_image_512;not null;default:false"`
	HasImage256  bool      `gorm:"column:has_image_256;not null;default:false"`
	WriteDate    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (VariantModel) TableName() string {
	return "product_variants"
}

// ToDomain converts the persistence model to a domain Variant
func (m *VariantModel) ToDomain() catalog.Variant {
	return catalog.Variant{
		ID:        m.ID,
		ProductID: m.ProductID,
		SKU:       m.SKU,
		Barcode:   m.Barcode,
		Images: catalog.ImageSet{
			Has1920: m.HasImage1920,
			Has1024: m.HasImage1024,
			Has512:  m.HasImage512,
			Has256:  m.HasImage256,
		},
		WriteDate: m.WriteDate,
	}
}

// AttributeLineModel is the persistence model for a product attribute line
type AttributeLineModel struct {
	ID            int64                 `gorm:"primaryKey;autoIncrement"`
	ProductID     int64                 `gorm:"not null;index"`
	AttributeID   int64                 `gorm:"not null"`
	AttributeName string                `gorm:"type:varchar(100);not null"`
	Values        []AttributeValueModel `gorm:"foreignKey:LineID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (AttributeLineModel) TableName() string {
	return "product_attribute_lines"
}

// ToDomain converts the persistence model to a domain AttributeLine
func (m *AttributeLineModel) ToDomain() catalog.AttributeLine {
	l := catalog.AttributeLine{
		ID:            m.ID,
		ProductID:     m.ProductID,
		AttributeID:   m.AttributeID,
		AttributeName: m.AttributeName,
	}
	for _, v := range m.Values {
		l.Values = append(l.Values, catalog.AttributeValue{
			ID:         v.ID,
			Name:       v.Name,
			PriceExtra: v.PriceExtra,
		})
	}
	return l
}

// AttributeValueModel is the persistence model for an attribute value
type AttributeValueModel struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`
	LineID     int64           `gorm:"not null;index"`
	Name       string          `gorm:"type:varchar(100);not null"`
	PriceExtra decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (AttributeValueModel) TableName() string {
	return "product_attribute_values"
}
