package main

import (
	"MeldFM/cmd"
)

func main() {
	cmd.Execute()
}
