package main

import "github.com/Rorical/StoreAgent/cmd"

func main() {
	cmd.Execute()
}
