package main

import "taskflow/cmd"

func main() {
	cmd.Run()
}
