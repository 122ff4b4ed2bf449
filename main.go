package main

import "devopsdemo/cmd"

func main() {
	cmd.Execute()
}
