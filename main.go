package main

import (
	"os"

	"github.com/MyCarrier-DevOps/go-easytag/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
