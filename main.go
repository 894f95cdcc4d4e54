package main

import "report-manager/cmd"

func main() {
	cmd.Execute()
}
