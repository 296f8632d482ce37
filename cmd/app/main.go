package main

import (
	"go.uber.org/fx"

	"github.com/shred03/filestore-bot/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
