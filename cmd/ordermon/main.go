package main

import (
	"github.com/joho/godotenv"

	"order-alerts/internal/cli"
)

func main() {
	// Optional; deployments usually supply ORDERMON_* via the environment.
	_ = godotenv.Load()

	cli.Execute()
}
