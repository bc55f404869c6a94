package gateway

import (
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"hl-seeder/monitor"
)

// ExchangeConfig describes how to build an ExchangeClient.
type ExchangeConfig struct {
	PrivateKey string
	BaseURL    string
	HTTPClient *http.Client
	Limiter    RateLimiter
	Monitor    *monitor.Monitor
}

// ExchangeClient issues signed trading actions against /exchange. One client
// serves one API wallet; it carries no state beyond the cached perp meta and
// the nonce watermark.
type ExchangeClient struct {
	rest      *RESTClient
	info      *InfoClient
	signer    *Signer
	isMainnet bool

	meta      *Meta
	prevNonce atomic.Int64
}

// NewExchangeClient derives the signing identity from cfg.PrivateKey and
// binds it to cfg.BaseURL. Key parsing is the only validation performed; a
// wrong-but-well-formed key only surfaces when the exchange rejects the
// signature.
func NewExchangeClient(cfg ExchangeConfig) (*ExchangeClient, error) {
	signer, err := NewSigner(cfg.PrivateKey)
	if err != nil {
		return nil, err
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = Mainnet
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = NewDefaultHTTPClient(0)
	}
	rest := &RESTClient{
		BaseURL:    baseURL,
		HTTPClient: httpClient,
		Limiter:    cfg.Limiter,
		Monitor:    cfg.Monitor,
	}

	c := &ExchangeClient{
		rest:      rest,
		info:      NewInfoClient(rest),
		signer:    signer,
		isMainnet: !strings.Contains(baseURL, "testnet"),
	}
	c.prevNonce.Store(time.Now().UnixMilli())
	return c, nil
}

// Info exposes the read-only client bound to the same endpoint.
func (c *ExchangeClient) Info() *InfoClient {
	return c.info
}

// Address returns the API wallet address.
func (c *ExchangeClient) Address() string {
	return c.signer.Address().Hex()
}

// assetIndex resolves a symbol through the cached perp meta, fetching it on
// first use the way the reference SDK populates its coin map at construction.
func (c *ExchangeClient) assetIndex(asset string) (int, error) {
	if c.meta == nil {
		meta, err := c.info.Meta()
		if err != nil {
			return 0, fmt.Errorf("fetch meta: %w", err)
		}
		c.meta = meta
	}
	idx, ok := c.meta.AssetIndex(asset)
	if !ok {
		return 0, fmt.Errorf("unknown asset: %s", asset)
	}
	return idx, nil
}

// UpdateLeverage sets the leverage multiplier for an asset. isCross selects
// cross margin; the seeder always passes true.
func (c *ExchangeClient) UpdateLeverage(leverage int, asset string, isCross bool) (*ExchangeResponse, error) {
	idx, err := c.assetIndex(asset)
	if err != nil {
		return nil, err
	}
	action := UpdateLeverageAction{
		Type:     "updateLeverage",
		Asset:    idx,
		IsCross:  isCross,
		Leverage: leverage,
	}
	return c.post(action)
}

// PlaceOrder submits a single limit order with the given time-in-force.
func (c *ExchangeClient) PlaceOrder(asset string, isBuy bool, size, price float64, tif string) (*ExchangeResponse, error) {
	idx, err := c.assetIndex(asset)
	if err != nil {
		return nil, err
	}
	px, err := FloatToWire(price)
	if err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}
	sz, err := FloatToWire(size)
	if err != nil {
		return nil, fmt.Errorf("size: %w", err)
	}
	action := OrderAction{
		Type: "order",
		Orders: []OrderWire{{
			Asset:      idx,
			IsBuy:      isBuy,
			LimitPx:    px,
			Sz:         sz,
			ReduceOnly: false,
			OrderType:  OrderTypeWire{Limit: &LimitOrderWire{Tif: tif}},
		}},
		Grouping: "na",
	}
	return c.post(action)
}

// post signs the action and submits the standard /exchange envelope.
func (c *ExchangeClient) post(action any) (*ExchangeResponse, error) {
	nonce := c.nextNonce()
	sig, err := c.signer.SignL1Action(action, nonce, c.isMainnet)
	if err != nil {
		return nil, err
	}
	payload := map[string]any{
		"action":       action,
		"nonce":        nonce,
		"signature":    sig,
		"vaultAddress": nil,
	}
	var resp ExchangeResponse
	if err := c.rest.PostJSON("/exchange", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// nextNonce returns a strictly increasing millisecond nonce. The exchange
// requires nonces to stay close to wall-clock time and never repeat, so two
// back-to-back calls in the same millisecond must not collide.
func (c *ExchangeClient) nextNonce() int64 {
	for {
		prev := c.prevNonce.Load()
		curr := time.Now().UnixMilli()
		if curr <= prev {
			curr = prev + 1
		}
		if c.prevNonce.CompareAndSwap(prev, curr) {
			return curr
		}
	}
}
