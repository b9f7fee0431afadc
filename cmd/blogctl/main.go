package main

import "blogforge-backend/internal/cli"

func main() {
	cli.Execute()
}
