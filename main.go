package main

import "github.com/user/cef/cmd"

func main() {
	cmd.Execute()
}
