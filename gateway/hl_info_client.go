package gateway

// InfoClient reads public and account state from the /info endpoint. It
// never signs anything and needs no key.
type InfoClient struct {
	rest *RESTClient
}

// NewInfoClient wraps a RESTClient for /info queries.
func NewInfoClient(rest *RESTClient) *InfoClient {
	return &InfoClient{rest: rest}
}

// Meta fetches the perp universe (asset names, size decimals).
func (c *InfoClient) Meta() (*Meta, error) {
	var meta Meta
	req := map[string]string{"type": "meta"}
	if err := c.rest.PostJSON("/info", req, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// AllMids fetches current mid prices keyed by asset symbol.
func (c *InfoClient) AllMids() (map[string]string, error) {
	var mids map[string]string
	req := map[string]string{"type": "allMids"}
	if err := c.rest.PostJSON("/info", req, &mids); err != nil {
		return nil, err
	}
	return mids, nil
}

// ClearinghouseState fetches the account snapshot (open positions with
// leverage) for a 0x address. A position list with leverage zero or no entry
// for the asset is what sends the host down the seed-trade path.
func (c *InfoClient) ClearinghouseState(user string) (*ClearinghouseState, error) {
	var state ClearinghouseState
	req := map[string]string{"type": "clearinghouseState", "user": user}
	if err := c.rest.PostJSON("/info", req, &state); err != nil {
		return nil, err
	}
	return &state, nil
}
