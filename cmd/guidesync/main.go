package main

import "github.com/hb-platform/guidesync/internal/cli"

func main() {
	cli.Execute()
}
