package main

import "pegascrape/internal/cmd"

func main() {
	cmd.Execute()
}
