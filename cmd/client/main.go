package main

import "goqualtrics/cmd/client/cmd"

func main() {
	cmd.Execute()
}
