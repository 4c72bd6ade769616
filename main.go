package main

import "github.com/tranvictor/revoker/cmd"

func main() {
	cmd.Execute()
}
