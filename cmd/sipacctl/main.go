package main

import "sipacmirror/cmd/sipacctl/cmd"

func main() {
	cmd.Execute()
}
