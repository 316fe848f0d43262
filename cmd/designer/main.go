package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/momenTUM-research-platform/momenTUM-designer/internal/di"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "c", "config/config.yaml", "path to the configuration file")
	flag.BoolVar(&flags.DebugMode, "d", false, "debug mode, mirrors logs to the console")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %s\n", err)
		os.Exit(1)
	}
}
