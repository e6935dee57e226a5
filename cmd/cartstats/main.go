package main

import "github.com/matthieukhl/cartstats/internal/cmd"

func main() {
	cmd.Execute()
}
