package main

import "cuebox/cmd"

func main() {
	cmd.Execute()
}
