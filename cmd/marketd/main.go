package main

import "github.com/LeJamon/goMarketd/internal/cli"

func main() {
	cli.Execute()
}
