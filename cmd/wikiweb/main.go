package main

import "github.com/wikisvc/wikiweb/cmd/wikiweb/command"

func main() {
	command.Execute()
}
