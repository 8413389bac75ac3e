package main

import "github.com/KaramelBytes/crocstat-cli/cmd"

func main() {
	cmd.Execute()
}
