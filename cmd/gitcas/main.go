package main

import "github.com/aweris/gitcas/cmd/gitcas/cmd"

func main() {
	cmd.Execute()
}
