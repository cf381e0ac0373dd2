package main

import "github.com/picogen/picogen/cmd"

func main() {
	cmd.Execute()
}
