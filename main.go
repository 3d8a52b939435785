package main

import "clementus360/simpliday/cli"

func main() {
	cli.Execute()
}
