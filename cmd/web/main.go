package main

import "cardbox_backend/internal/app"

func main() {
	app.Run()
}
