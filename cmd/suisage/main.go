package main

import (
	"os"

	"github.com/suisage/suisage/internal/app"
)

func main() {
	runner := app.NewRunner()
	os.Exit(runner.Run(os.Args[1:]))
}
