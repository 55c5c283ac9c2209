package main

import "github.com/djairjr/translate-folder/internal/cli"

func main() {
	cli.Execute()
}
