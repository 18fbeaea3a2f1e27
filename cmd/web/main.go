package main

import "clutchpay_backend/internal/app"

func main() {
	app.Run()
}
