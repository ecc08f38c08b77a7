package main

import "github.com/hnquoc/tableserve/cmd"

func main() {
	cmd.Execute()
}
