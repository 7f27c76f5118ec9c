package main

import (
	"context"
	"os"

	"github.com/ethereum/go-ethereum/log"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
