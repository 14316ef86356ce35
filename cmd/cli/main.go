package main

import (
	"context"
	"log"

	"github.com/adhamfakhereldeen/Cyber/internal/client/cli"
	"github.com/adhamfakhereldeen/Cyber/internal/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
