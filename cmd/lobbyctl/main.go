package main

import "github.com/DoyleJ11/seating-lobby/internal/cli"

func main() {
	cli.Execute()
}
