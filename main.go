package main

import "SIABSEN/cmd"

func main() {
	cmd.Execute()
}
