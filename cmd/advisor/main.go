package main

import "example.com/finance-advisor/internal/cli"

func main() {
	cli.Execute()
}
