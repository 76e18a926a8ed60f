package main

import "hrdash/cmd"

func main() {
	cmd.Execute()
}
