package main

import "github.com/rmolin/wowpkg/cmd"

func main() {
	cmd.Execute()
}
