package main

import "github.com/stevendejongnl/harv/cmd"

func main() {
	cmd.Execute()
}
