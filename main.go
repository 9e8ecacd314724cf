package main

import "github.com/Tiliavir/gitlab-timelogs/cmd"

func main() {
	cmd.Execute()
}
