package main

import (
	"github.com/docbind/docbind/cmd"
)

func main() {
	cmd.Execute()
}
