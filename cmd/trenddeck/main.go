package main

import (
	"os"

	"TrendDeck/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
