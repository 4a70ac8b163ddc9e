package main

import "github.com/mvp-joe/extract-method/internal/cli"

func main() {
	cli.Execute()
}
