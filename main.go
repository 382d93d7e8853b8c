package main

import "ttconvert/cmd"

func main() {
	cmd.Execute()
}
