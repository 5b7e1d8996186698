package main

import "github.com/mdMaikon/Mesa-Premium-sub001/cmd"

func main() {
	cmd.Execute()
}
