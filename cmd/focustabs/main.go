package main

import "github.com/bryanchriswhite/FocusTabs/cmd/focustabs/commands"

func main() {
	commands.Execute()
}
