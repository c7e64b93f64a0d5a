package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cardnexus/cardnexus-backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.ImportCards(context.Background()); err != nil {
		a.Log.Fatal("card import failed", "error", err)
	}

	a.Log.Info("starting server", "port", a.Cfg.Port)
	if err := a.Run(); err != nil {
		a.Log.Fatal("server exited", "error", err)
	}
}
