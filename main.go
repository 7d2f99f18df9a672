package main

import "github.com/mrbooshehri/folio/cmd"

func main() {
	cmd.Execute()
}
