package main

import "github.com/avasylenko/stitchflow/internal/adapters/cli"

func main() {
	cli.Execute()
}
