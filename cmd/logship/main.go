package main

import "github.com/vietddude/logship/internal/cli"

func main() {
	cli.Execute()
}
