// Command fill_watch tails the user fill stream for an address over the
// exchange websocket. Useful for watching whether a seed order actually
// executed without polling the REST API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hl-seeder/gateway"
)

func main() {
	address := flag.String("address", "", "account address (0x...)")
	key := flag.String("key", "", "API wallet private key; used to derive the address if --address is empty")
	hlURL := flag.String("hl-url", gateway.Mainnet, "Hyperliquid API URL")
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		cancel()
	}()

	ws := gateway.NewWSClient(*hlURL)
	if err := ws.Connect(ctx); err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer ws.Close()
	if err := ws.SubscribeUserFills(user); err != nil {
		log.Fatalf("subscribe userFills: %v", err)
	}
	log.Printf("watching fills for %s", user)

	err := ws.ReadFills(ctx, func(f gateway.Fill) {
		ts := time.UnixMilli(f.Time).UTC().Format(time.RFC3339)
		fmt.Printf("%s %s %s px=%s sz=%s oid=%d fee=%s\n",
			ts, f.Coin, f.Side, f.Px, f.Sz, f.Oid, f.Fee)
	})
	if err != nil && ctx.Err() == nil {
		log.Fatalf("stream ended: %v", err)
	}
}
