package main

import "github.com/kfreiman/mockinterview/cmd"

func main() {
	cmd.Execute()
}
