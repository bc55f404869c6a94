// Package seeder implements the position-bootstrap actions the trading host
// invokes when the on-chain position precompile reports leverage=0 and the
// normal order path is unavailable: set leverage, seed an opening IOC order,
// or place a closing IOC order via the REST API.
package seeder

import (
	"encoding/json"
	"fmt"

	"hl-seeder/gateway"
)

// Action names accepted on the command line.
const (
	ActionSetLeverage   = "set_leverage"
	ActionSeedTrade     = "seed_trade"
	ActionClosePosition = "close_position"
)

// Result statuses and step tags.
const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusFilled  = "filled"
	StatusResting = "resting"
	StatusNoFill  = "no_fill"

	StepSetLeverage   = "set_leverage"
	StepPlaceOrder    = "place_order"
	StepOrderRejected = "order_rejected"
	StepException     = "exception"
)

// Exchange is the slice of the gateway the actions need. *gateway.ExchangeClient
// satisfies it; tests substitute a fake.
type Exchange interface {
	UpdateLeverage(leverage int, asset string, isCross bool) (*gateway.ExchangeResponse, error)
	PlaceOrder(asset string, isBuy bool, size, price float64, tif string) (*gateway.ExchangeResponse, error)
}

// Params carries one invocation's order parameters. Size and price default
// to zero; a zero-size order is submitted as-is rather than rejected, so the
// host can probe the full path without moving a position.
type Params struct {
	Asset    string
	Leverage int
	IsBuy    bool
	Size     float64
	Price    float64
}

// Result is the single JSON object printed to stdout. Business failures are
// carried here with exit code 0; the host inspects Status, never the exit
// code.
type Result struct {
	Status    string `json:"status"`
	Step      string `json:"step,omitempty"`
	Detail    string `json:"detail,omitempty"`
	AvgPrice  string `json:"avg_price,omitempty"`
	TotalSize string `json:"total_size,omitempty"`
}

// Run dispatches an action name. The connect callback builds the exchange
// client lazily so construction failures are reported through the same
// structured path as call failures instead of crashing the process.
func Run(action string, connect func() (Exchange, error), p Params) Result {
	switch action {
	case ActionSetLeverage:
		return SetLeverage(connect, p)
	case ActionSeedTrade:
		return SeedTrade(connect, p)
	case ActionClosePosition:
		return ClosePosition(connect, p)
	default:
		return Result{Status: StatusError, Detail: fmt.Sprintf("unknown action: %s", action)}
	}
}

// SetLeverage updates leverage for the asset with cross margin. No order is
// placed.
func SetLeverage(connect func() (Exchange, error), p Params) Result {
	ex, err := connect()
	if err != nil {
		return Result{Status: StatusError, Detail: err.Error()}
	}
	resp, err := ex.UpdateLeverage(p.Leverage, p.Asset, true)
	if err != nil {
		return Result{Status: StatusError, Detail: err.Error()}
	}
	if resp.Status != "ok" {
		return Result{Status: StatusError, Detail: resp.String()}
	}
	return Result{Status: StatusOK}
}

// SeedTrade sets leverage and then places an IOC order to open the seed
// position. The order step never runs after a failed leverage update, and
// there is no rollback if the order step fails afterwards: leverage stays
// changed, which the host accepts.
func SeedTrade(connect func() (Exchange, error), p Params) Result {
	ex, err := connect()
	if err != nil {
		return Result{Status: StatusError, Step: StepException, Detail: err.Error()}
	}

	lev, err := ex.UpdateLeverage(p.Leverage, p.Asset, true)
	if err != nil {
		return Result{Status: StatusError, Step: StepException, Detail: err.Error()}
	}
	if lev.Status != "ok" {
		return Result{Status: StatusError, Step: StepSetLeverage, Detail: lev.String()}
	}

	order, err := ex.PlaceOrder(p.Asset, p.IsBuy, p.Size, p.Price, gateway.TifIoc)
	if err != nil {
		return Result{Status: StatusError, Step: StepException, Detail: err.Error()}
	}
	return classifyOrderResponse(order)
}

// ClosePosition places a single IOC order. Choosing the side that actually
// closes rather than extends the position is the caller's responsibility.
func ClosePosition(connect func() (Exchange, error), p Params) Result {
	ex, err := connect()
	if err != nil {
		return Result{Status: StatusError, Step: StepException, Detail: err.Error()}
	}
	order, err := ex.PlaceOrder(p.Asset, p.IsBuy, p.Size, p.Price, gateway.TifIoc)
	if err != nil {
		return Result{Status: StatusError, Step: StepException, Detail: err.Error()}
	}
	return classifyOrderResponse(order)
}

// classifyOrderResponse normalizes an order placement reply. Only the first
// per-order status entry is examined: the seeder submits exactly one order
// per invocation. Priority is filled > resting > error > no_fill.
func classifyOrderResponse(resp *gateway.ExchangeResponse) Result {
	if resp.Status != "ok" {
		return Result{Status: StatusError, Step: StepPlaceOrder, Detail: resp.String()}
	}
	statuses := resp.OrderStatuses()
	if statuses == nil {
		statuses = []gateway.OrderStatus{}
	}
	if len(statuses) > 0 {
		first := statuses[0]
		switch {
		case first.Filled != nil:
			return Result{
				Status:    StatusFilled,
				AvgPrice:  orDefault(first.Filled.AvgPx, "0"),
				TotalSize: orDefault(first.Filled.TotalSz, "0"),
			}
		case first.Resting != nil:
			return Result{Status: StatusResting, Detail: jsonString(first)}
		case first.Error != nil:
			return Result{Status: StatusError, Step: StepOrderRejected, Detail: *first.Error}
		}
	}
	return Result{Status: StatusNoFill, Detail: jsonString(statuses)}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// jsonString renders a payload fragment as compact JSON for detail fields.
func jsonString(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}
