package main

import (
	"github.com/icesnap/icesnap/cmd"
	"github.com/icesnap/icesnap/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
