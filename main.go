package main

import "cmdprobe/cmd"

func main() {
	cmd.Execute()
}
