package main

import "github.com/diogo/nuchat/internal/commands"

func main() {
	commands.Execute()
}
