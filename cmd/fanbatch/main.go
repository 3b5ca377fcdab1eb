package main

import (
	"context"
	"os"

	"github.com/agbru/fanbatch/internal/app"
)

func main() {
	os.Exit(app.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
