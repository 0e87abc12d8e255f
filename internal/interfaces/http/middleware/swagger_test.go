package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSwaggerProtection(t *testing.T) {
	tests := []struct {
		name       string
		cfg        SwaggerConfig
		remoteAddr string
		wantStatus int
	}{
		{name: "disabled", cfg: SwaggerConfig{Enabled: false}, remoteAddr: "10.0.0.1:1234", wantStatus: http.StatusNotFound},
		{name: "enabled without whitelist", cfg: SwaggerConfig{Enabled: true}, remoteAddr: "203.0.113.7:1234", wantStatus: http.StatusOK},
		{name: "exact IP allowed", cfg: SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.1"}}, remoteAddr: "10.0.0.1:1234", wantStatus: http.StatusOK},
		{name: "CIDR allowed", cfg: SwaggerConfig{Enabled: true, AllowedIPs: []string{"192.168.0.0/16"}}, remoteAddr: "192.168.4.20:5555", wantStatus: http.StatusOK},
		{name: "outside whitelist", cfg: SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}}, remoteAddr: "203.0.113.7:1234", wantStatus: http.StatusForbidden},
		{name: "invalid entries ignored", cfg: SwaggerConfig{Enabled: true, AllowedIPs: []string{"not-an-ip", "10.0.0.0/99"}}, remoteAddr: "10.0.0.1:1234", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(SwaggerProtection(tt.cfg))
			router.GET("/swagger/index.html", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
			req.RemoteAddr = tt.remoteAddr
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
