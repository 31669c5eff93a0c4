package main

import "github/chapool/eth-relay/cmd"

func main() {
	cmd.Execute()
}
