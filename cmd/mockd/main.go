// Command mockd runs the in-memory development backend so the
// storefront can be exercised without a deployed API. State lives for
// the lifetime of the process; restart to reset.
package main

import (
	"log"

	"github.com/yudhapr/pasarloak/internal/config"
	"github.com/yudhapr/pasarloak/internal/mockapi"
)

func main() {
	cfg := config.Load()

	state := mockapi.NewState()
	state.Seed()

	e := mockapi.NewServer(state, mockapi.Options{
		JWTSecret:  cfg.JWTSecret,
		BcryptCost: cfg.BcryptCost,
	})

	addr := ":" + cfg.MockPort
	log.Printf("mockd listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
