package main

import "github.com/noumanabid-jpg/Promo-Calculator/cmd"

func main() {
	cmd.Execute()
}
