package main

import "github.com/terraincognita07/platelog/internal/cli"

func main() {
	cli.Execute()
}
