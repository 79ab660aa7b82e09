package main

import "github.com/WarBros01113/Kin-Konnect-sub001/cmd"

func main() {
	cmd.Execute()
}
