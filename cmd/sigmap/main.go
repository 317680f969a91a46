package main

import "github.com/spectriclabs/sigmap-service/internal/app"

func main() {
	app.Run()
}
