package main

import "github.com/trougnouf/cutover/cmd"

func main() {
	cmd.Execute()
}
