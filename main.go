package main

import "github.com/KaramelBytes/cafeteria-insights/cmd"

func main() {
	cmd.Execute()
}
