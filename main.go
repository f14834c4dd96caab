package main

import "github.com/devicelab-dev/ui-inspector/pkg/cli"

func main() {
	cli.Execute()
}
