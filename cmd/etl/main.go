package main

import (
	"os"

	"fashion-etl/cmd/etl/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
