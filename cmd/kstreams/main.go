package main

import (
	"context"

	"github.com/olympicmew/kstreams/cmd/kstreams/commands"
	"github.com/olympicmew/kstreams/lib/telemetry"
)

func main() {
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
