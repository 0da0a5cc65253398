package main

import "github.com/agentic-research/solradmin/cmd"

func main() {
	cmd.Execute()
}
