package main

import "github.com/HaiFongPan/hsq-cli/cmd"

func main() {
	cmd.Execute()
}
