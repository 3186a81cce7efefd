package main

import "media-offload/cmd"

func main() {
	cmd.Execute()
}
