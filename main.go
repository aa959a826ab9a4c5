package main

import "metadata-harvester/cmd"

func main() {
	cmd.Execute()
}
