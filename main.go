package main

import "github.com/RodrigoAlmeidadeOliveira/SPM-TO-sub000/cmd"

func main() {
	cmd.Execute()
}
