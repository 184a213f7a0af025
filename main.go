package main

import "github.com/lepinkainen/bookledger/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
