package main

import "storyforge/cmd/storyforge-cli/cmd"

func main() {
	cmd.Execute()
}
