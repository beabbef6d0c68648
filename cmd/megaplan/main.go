package main

import "github.com/tansive/megaplan/internal/cli"

func main() {
	cli.Execute()
}
