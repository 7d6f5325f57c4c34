package main

import "cloudlift/nodectl/cmd"

func main() {
	cmd.Execute()
}
