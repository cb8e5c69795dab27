package main

import "github.com/armbian/targetgen/cmd"

func main() {
	cmd.Execute()
}
