package main

// @title           Planner Core API
// @version         1.0
// @description     Reconciles concurrent edits to church service plans. The pastor team edits the order of worship while the worship team picks songs and readings; saves are merged, never rejected.

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

import (
	"log"

	"github.com/worshipflow/planner-core/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.NewRootCommand(version).Execute(); err != nil {
		log.Fatalf("planner-core: %v", err)
	}
}
