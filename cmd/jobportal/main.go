package main

import (
	"fmt"
	"os"

	"github.com/kumari203/job-portal-web-app/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "jobportal: %v\n", err)
		os.Exit(1)
	}
}
