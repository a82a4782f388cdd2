package main

import "github.com/Tiliavir/activity-log/cmd"

func main() {
	cmd.Execute()
}
