package main

import "github.com/chuthree/brew-guide/cmd/brewguide"

func main() {
	brewguide.Execute()
}
