package delivery

import "encoding/json"

// ---------------------------------------------------------------------------
// OAuth
// ---------------------------------------------------------------------------

type grabTokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	GrantType    string `json:"grant_type"`
	Scope        string `json:"scope"`
}

type grabTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// cachedToken is the JSON value stored in the key-value store
type cachedToken struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

// ---------------------------------------------------------------------------
// Menu
// ---------------------------------------------------------------------------

type grabMenuNotificationRequest struct {
	MerchantID string `json:"merchantID"`
}

type grabActivationRequest struct {
	Partner grabActivationPartner `json:"partner"`
}

type grabActivationPartner struct {
	MerchantID string `json:"merchantID"`
}

type grabActivationResponse struct {
	ActivationURL string `json:"activationUrl"`
	URL           string `json:"url"`
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

type grabMarkOrderRequest struct {
	OrderID    string `json:"orderID"`
	MarkStatus int    `json:"markStatus"`
}

type grabReadyTimeRequest struct {
	OrderID           string `json:"orderID"`
	NewOrderReadyTime string `json:"newOrderReadyTime"`
}

type grabListOrdersResponse struct {
	Orders []json.RawMessage `json:"orders"`
	More   bool              `json:"more"`
}

// grabErrorResponse is the error body shape of the partner API
type grabErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Reason  string `json:"reason"`
}
