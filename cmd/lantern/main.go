package main

import "github.com/crimson-sun/lantern/internal/cmd"

func main() {
	cmd.Execute()
}
