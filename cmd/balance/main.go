package main

import "github.com/mwyatt/balance/cmd/balance/commands"

func main() {
	commands.Execute()
}
