package main

import "github.com/khlin/tabgen/cmd"

func main() {
	cmd.Execute()
}
