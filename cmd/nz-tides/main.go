package main

import "github.com/ngmaloney/nz-tides/internal/cli"

func main() {
	cli.Execute()
}
