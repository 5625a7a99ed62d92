package main

import "buildlock/internal/cli"

func main() {
	cli.Execute()
}
