package main

import (
	"github.com/maxgio92/ioprofile/pkg/cmd"
)

func main() {
	cmd.Execute()
}
