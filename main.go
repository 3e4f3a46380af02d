package main

import "github.com/fabric-ops/vrfctl/cmd"

func main() {
	cmd.Execute()
}
