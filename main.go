package main

import "github.com/geracaoeleita/roster-management/cmd"

func main() {
	cmd.Execute()
}
