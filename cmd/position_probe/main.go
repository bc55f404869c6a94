// Command position_probe prints the open perp positions and leverage for an
// address. It is the manual counterpart of the host's leverage=0 check that
// decides whether a seed trade is needed.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"hl-seeder/gateway"
)

func main() {
	address := flag.String("address", "", "account address (0x...)")
	key := flag.String("key", "", "API wallet private key; used to derive the address if --address is empty")
	hlURL := flag.String("hl-url", gateway.Mainnet, "Hyperliquid API URL")
	asset := flag.String("asset", "", "optional: only print this asset")
	flag.Parse()

	user := *address
	if user == "" {
		if *key == "" {
			log.Fatalf("one of --address or --key is required")
		}
		signer, err := gateway.NewSigner(*key)
		if err != nil {
			log.Fatalf("parse key: %v", err)
		}
		user = signer.Address().Hex()
	}

	info := gateway.NewInfoClient(&gateway.RESTClient{
		BaseURL:    *hlURL,
		HTTPClient: gateway.NewDefaultHTTPClient(10 * time.Second),
	})
	state, err := info.ClearinghouseState(user)
	if err != nil {
		log.Fatalf("query clearinghouse state: %v", err)
	}

	filter := strings.ToUpper(strings.TrimSpace(*asset))
	printed := 0
	for _, ap := range state.AssetPositions {
		p := ap.Position
		if filter != "" && strings.ToUpper(p.Coin) != filter {
			continue
		}
		fmt.Printf("%s szi=%s entry=%s leverage=%dx(%s) pnl=%s liq=%s\n",
			p.Coin, p.Szi, p.EntryPx, p.Leverage.Value, p.Leverage.Type, p.UnrealizedPnl, p.LiquidationPx)
		printed++
	}
	if printed == 0 {
		fmt.Printf("no open positions for %s\n", user)
	}
}
