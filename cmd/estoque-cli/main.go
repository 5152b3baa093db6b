package main

import "estoque/cmd/estoque-cli/cmd"

func main() {
	cmd.Execute()
}
