package main

import "github.com/pfrederiksen/dieliga/internal/cli"

func main() {
	cli.Execute()
}
