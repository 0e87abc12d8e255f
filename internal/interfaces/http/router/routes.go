package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PartnerEndpoints are the handlers the delivery platform calls
type PartnerEndpoints struct {
	IssueToken        gin.HandlerFunc
	GetMenu           gin.HandlerFunc
	ExportMenu        gin.HandlerFunc
	SubmitOrder       gin.HandlerFunc
	UpdateOrderState  gin.HandlerFunc
	MenuSyncState     gin.HandlerFunc
	IntegrationStatus gin.HandlerFunc
	PushGrabMenu      gin.HandlerFunc
}

// IntegrationEndpoints are the admin handlers over menus, orders and platform calls
type IntegrationEndpoints struct {
	PushMenu        gin.HandlerFunc
	ActivationURL   gin.HandlerFunc
	MenuTrace       gin.HandlerFunc
	PreviewMenu     gin.HandlerFunc
	PushCooldown    gin.HandlerFunc
	ListOrders      gin.HandlerFunc
	GetOrder        gin.HandlerFunc
	MarkOrder       gin.HandlerFunc
	UpdateReadyTime gin.HandlerFunc
	SyncOrders      gin.HandlerFunc
	ListSyncLogs    gin.HandlerFunc
	ListSyncJobs    gin.HandlerFunc
}

// CatalogEndpoints are the admin catalog maintenance handlers
type CatalogEndpoints struct {
	PreviewPrices gin.HandlerFunc
	ApplyPrices   gin.HandlerFunc
	SyncModifiers gin.HandlerFunc
	SyncCategory  gin.HandlerFunc
}

// PartnerAuth holds the bearer checks of the partner routes. Nil entries leave routes open.
type PartnerAuth struct {
	// Menu guards the menu pull routes
	Menu gin.HandlerFunc
	// Webhooks guards the order and callback webhooks
	Webhooks gin.HandlerFunc
}

var menuMethods = []string{http.MethodGet, http.MethodPost}

// NewPartnerGroup builds the /grab routes
func NewPartnerGroup(e PartnerEndpoints, auth PartnerAuth) *DomainGroup {
	grab := NewDomainGroup("grab", "/grab")
	grab.POST("/oauth/token", e.IssueToken)

	menu := grab.Group("menu", "")
	if auth.Menu != nil {
		menu.Use(auth.Menu)
	}
	for _, path := range []string{"/get_menu", "/get_menu/", "/merchant/menu", "/merchant/menu/"} {
		menu.Match(menuMethods, path, e.GetMenu)
	}
	// carries its own bearer presence check
	grab.POST("/menu/export", e.ExportMenu)

	hooks := grab.Group("webhooks", "/webhook")
	if auth.Webhooks != nil {
		hooks.Use(auth.Webhooks)
	}
	hooks.POST("/order", e.SubmitOrder)
	hooks.PUT("/order/state", e.UpdateOrderState)
	hooks.POST("/menu-sync-state", e.MenuSyncState)
	hooks.POST("/integration_status", e.IntegrationStatus)
	hooks.POST("/pushGrabMenu", e.PushGrabMenu)
	return grab
}

// NewLegacyTokenGroup serves the token endpoint under /api/grab as well
func NewLegacyTokenGroup(issueToken gin.HandlerFunc) *DomainGroup {
	return NewDomainGroup("grab-legacy", "/api/grab").POST("/oauth/token", issueToken)
}

// NewIntegrationGroup builds /integration under the versioned API
func NewIntegrationGroup(e IntegrationEndpoints) *DomainGroup {
	g := NewDomainGroup("integration", "/integration")

	menus := g.Group("menus", "/menus/:id")
	menus.POST("/push", e.PushMenu)
	menus.GET("/activation-url", e.ActivationURL)
	menus.GET("/trace", e.MenuTrace)
	menus.GET("/preview", e.PreviewMenu)

	g.GET("/merchants/:merchant_id/push-cooldown", e.PushCooldown)

	orders := g.Group("orders", "/orders")
	orders.GET("", e.ListOrders)
	orders.POST("/sync", e.SyncOrders)
	orders.GET("/:order_id", e.GetOrder)
	orders.POST("/:order_id/mark", e.MarkOrder)
	orders.PUT("/:order_id/ready-time", e.UpdateReadyTime)

	g.GET("/sync-logs", e.ListSyncLogs)
	g.GET("/sync-jobs", e.ListSyncJobs)
	return g
}

// NewCatalogGroup builds /catalog under the versioned API
func NewCatalogGroup(e CatalogEndpoints) *DomainGroup {
	g := NewDomainGroup("catalog", "/catalog")
	g.POST("/pricing/preview", e.PreviewPrices)
	g.POST("/pricing/apply", e.ApplyPrices)
	g.POST("/modifiers/sync", e.SyncModifiers)
	g.POST("/categories/:id/sync", e.SyncCategory)
	return g
}
