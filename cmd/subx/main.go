package main

import "github.com/subx-cli/subx/cmd/subx/cmd"

func main() {
	cmd.Execute()
}
