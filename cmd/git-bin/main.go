package main

import "github.com/aweris/binstore/cmd/git-bin/cmd"

func main() {
	cmd.Execute()
}
