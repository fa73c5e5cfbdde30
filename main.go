package main

import "github.com/sconce-build/sconce/cmd"

func main() {
	cmd.Execute()
}
