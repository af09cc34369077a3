package main

import "github.com/frahmantamala/internship-api/cmd"

func main() {
	cmd.Execute()
}
