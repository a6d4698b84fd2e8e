package main

import (
	"github.com/dmelo/healthguru/internal/commands"
)

func main() {
	commands.Execute()
}
