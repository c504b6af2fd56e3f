package main

import "github.com/boushrabettir/ginder-backend/internal/cli"

func main() {
	cli.Execute()
}
