package main

import "campus-activity/cmd/server"

func main() {
	server.Init()
	server.Run()
}
