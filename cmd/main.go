package main

import (
	"flag"
	"fmt"

	"formix"
	"formix/internal"
	log "formix/internal/logging"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	// Panics still crash the program but get saved to ~/.formix/logs/panic.log
	defer log.LogPanic()

	var cfg internal.Config
	flag.StringVar(&cfg.SchemaPath, "schema", "", "path to a JSON schema file (default: built-in sample)")
	flag.StringVar(&cfg.OpenAPIPath, "openapi", "", "path to an OpenAPI document")
	flag.StringVar(&cfg.Component, "component", "", "component schema name within the OpenAPI document")
	flag.StringVar(&cfg.ValuePath, "value", "", "path to an initial JSON value file")
	flag.IntVar(&cfg.MaxDepth, "max-depth", 0, "structured form recursion limit (default 3)")
	flag.BoolVar(&cfg.NoDrafts, "no-drafts", false, "disable draft persistence")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(formix.AppVersion())
		return
	}

	if err := internal.Run(formix.AppVersion(), cfg); err != nil {
		log.Fatal(fmt.Sprintf("Failed to run formix: %v", err))
	}
}
