package main

import (
	"github.com/confbuild/confer/cmd/confer/internal"
)

func main() {
	internal.Execute()
}
