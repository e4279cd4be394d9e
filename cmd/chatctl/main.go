package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aussiebroadwan/bartab-sdk/internal/client/app"
	"github.com/aussiebroadwan/bartab-sdk/internal/client/state"
)

func main() {
	cfg := app.LoadConfig()

	client, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize client: %v", err)
	}

	ctx := context.Background()
	if err := client.Connect(ctx); err != nil {
		log.Fatalf("failed to connect: %v", err)
	}

	if acc := client.State().Account(); acc != nil {
		fmt.Printf("logged in as %s\n", acc.User.Tag())
	}

	remove := client.OnEvent(func(ev state.Event) {
		fmt.Printf("event: %s\n", ev.EventName())
	})
	defer remove()

	// Block until interrupted.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	<-shutdown

	if err := client.Close(); err != nil {
		log.Fatalf("shutdown failed: %v", err)
	}
}
