package main

import "Tunebox/cmd"

func main() {
	cmd.Execute()
}
