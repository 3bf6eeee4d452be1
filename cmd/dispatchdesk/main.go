package main

import (
	"github.com/truckline/dispatchdesk/internal/cli"
)

func main() {
	cli.Execute()
}
