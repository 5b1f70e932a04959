package main

import "github.com/hexaforge/imwrap/internal/cli"

func main() {
	cli.Execute()
}
