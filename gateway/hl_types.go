package gateway

import (
	"encoding/json"
	"fmt"
)

// Mainnet is the production Hyperliquid API endpoint.
const Mainnet = "https://api.hyperliquid.xyz"

// Testnet is the Hyperliquid testnet API endpoint.
const Testnet = "https://api.hyperliquid-testnet.xyz"

// TifIoc is the immediate-or-cancel time-in-force flag.
const TifIoc = "Ioc"

// Action payloads posted to /exchange. Field order matters: the L1 action
// hash is computed over the msgpack encoding and the signature only verifies
// when fields are emitted in the same order the official SDKs use, so these
// are structs rather than maps.

type LimitOrderWire struct {
	Tif string `json:"tif" msgpack:"tif"`
}

type OrderTypeWire struct {
	Limit *LimitOrderWire `json:"limit,omitempty" msgpack:"limit,omitempty"`
}

type OrderWire struct {
	Asset      int           `json:"a" msgpack:"a"`
	IsBuy      bool          `json:"b" msgpack:"b"`
	LimitPx    string        `json:"p" msgpack:"p"`
	Sz         string        `json:"s" msgpack:"s"`
	ReduceOnly bool          `json:"r" msgpack:"r"`
	OrderType  OrderTypeWire `json:"t" msgpack:"t"`
}

type OrderAction struct {
	Type     string      `json:"type" msgpack:"type"`
	Orders   []OrderWire `json:"orders" msgpack:"orders"`
	Grouping string      `json:"grouping" msgpack:"grouping"`
}

type UpdateLeverageAction struct {
	Type     string `json:"type" msgpack:"type"`
	Asset    int    `json:"asset" msgpack:"asset"`
	IsCross  bool   `json:"isCross" msgpack:"isCross"`
	Leverage int    `json:"leverage" msgpack:"leverage"`
}

// ExchangeResponse is the top-level reply from /exchange. Response is kept
// raw because the exchange returns an object on success and a bare message
// string on rejection.
type ExchangeResponse struct {
	Status   string          `json:"status"`
	Response json.RawMessage `json:"response,omitempty"`
}

// FilledStatus reports the executed part of an order.
type FilledStatus struct {
	Oid     int64  `json:"oid,omitempty"`
	TotalSz string `json:"totalSz,omitempty"`
	AvgPx   string `json:"avgPx,omitempty"`
}

// RestingStatus reports an order accepted onto the book.
type RestingStatus struct {
	Oid int64 `json:"oid,omitempty"`
}

// OrderStatus is one per-order entry under response.data.statuses. Error is
// a pointer so presence of the key can be told apart from an empty message.
type OrderStatus struct {
	Filled  *FilledStatus  `json:"filled,omitempty"`
	Resting *RestingStatus `json:"resting,omitempty"`
	Error   *string        `json:"error,omitempty"`
}

type responseData struct {
	Statuses []OrderStatus `json:"statuses"`
}

type innerResponse struct {
	Type string       `json:"type"`
	Data responseData `json:"data"`
}

// OrderStatuses decodes the per-order status list out of a successful order
// placement response. A nil or unrecognized body yields an empty slice.
func (r *ExchangeResponse) OrderStatuses() []OrderStatus {
	if r == nil || len(r.Response) == 0 {
		return nil
	}
	var inner innerResponse
	if err := json.Unmarshal(r.Response, &inner); err != nil {
		return nil
	}
	return inner.Data.Statuses
}

// String renders the raw response as compact JSON for error reporting.
func (r *ExchangeResponse) String() string {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf("%+v", *r)
	}
	return string(b)
}

// AssetInfo describes one entry of the perp universe returned by /info meta.
type AssetInfo struct {
	Name        string `json:"name"`
	SzDecimals  int    `json:"szDecimals"`
	MaxLeverage int    `json:"maxLeverage,omitempty"`
}

// Meta is the perp metadata used to map asset symbols to asset indices.
type Meta struct {
	Universe []AssetInfo `json:"universe"`
}

// AssetIndex resolves an asset symbol to its index in the perp universe.
func (m *Meta) AssetIndex(name string) (int, bool) {
	for i, a := range m.Universe {
		if a.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Leverage is the leverage setting attached to a position.
type Leverage struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

// Position is one open perp position from clearinghouseState.
type Position struct {
	Coin           string   `json:"coin"`
	Szi            string   `json:"szi"`
	EntryPx        string   `json:"entryPx,omitempty"`
	PositionValue  string   `json:"positionValue,omitempty"`
	UnrealizedPnl  string   `json:"unrealizedPnl,omitempty"`
	Leverage       Leverage `json:"leverage"`
	MarginUsed     string   `json:"marginUsed,omitempty"`
	LiquidationPx  string   `json:"liquidationPx,omitempty"`
	ReturnOnEquity string   `json:"returnOnEquity,omitempty"`
}

type AssetPosition struct {
	Type     string   `json:"type"`
	Position Position `json:"position"`
}

// ClearinghouseState is the account snapshot returned by /info.
type ClearinghouseState struct {
	AssetPositions []AssetPosition `json:"assetPositions"`
	Withdrawable   string          `json:"withdrawable,omitempty"`
}

// Fill is a single user fill delivered over the websocket userFills feed.
type Fill struct {
	Coin    string `json:"coin"`
	Px      string `json:"px"`
	Sz      string `json:"sz"`
	Side    string `json:"side"`
	Time    int64  `json:"time"`
	Oid     int64  `json:"oid"`
	Dir     string `json:"dir,omitempty"`
	Fee     string `json:"fee,omitempty"`
	Hash    string `json:"hash,omitempty"`
	Crossed bool   `json:"crossed,omitempty"`
}
