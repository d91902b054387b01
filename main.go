package main

import "github.com/Mahek1394/research-engineering-intern-assignment/cmd"

func main() {
	cmd.Execute()
}
