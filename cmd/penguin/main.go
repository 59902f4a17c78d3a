package main

import "github.com/penguin-assist/penguin/internal/cli"

func main() {
	cli.Execute()
}
