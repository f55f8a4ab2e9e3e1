package main

import (
	"log"
	"os"

	"github.com/alexflint/go-arg"
)

type Args struct {
	ConfigPath string `arg:"positional" default:"config.yaml" help:"Path to the configuration YAML file. By default is used 'config.yaml' path."`
	DataDir    string `arg:"-d,--data-dir" help:"Overrides the configured directory with incoming statement files."`
	OutputDir  string `arg:"-o,--output-dir" help:"Overrides the configured directory for ledger CSV files."`
	DryRun     bool   `arg:"--dry-run" help:"Parse and report without writing ledgers or moving files."`
}

// Version is application version string and should be updated with `go build -ldflags`.
var Version = "development"

func (Args) Version() string {
	return Version
}

func (Args) Description() string {
	return "Parqet-Parser extracts transactions from broker statements and merges them into deduplicated per-category CSV ledgers."
}

func main() {
	log.Printf("Version: %s", Version)

	// Parse arguments and set configPath.
	var args Args
	p, err := arg.NewParser(arg.Config{}, &args)
	if err != nil {
		log.Fatalf("Error creating argument parser: %v", err)
	}

	err = p.Parse(os.Args[1:])
	if err != nil {
		// Check if the error is a help request
		if err == arg.ErrHelp {
			p.WriteHelp(os.Stdout)
			os.Exit(0)
		}
		log.Fatalf("Error parsing arguments: %v", err)
	}

	configPath, err := getAbsolutePath(args.ConfigPath)
	if err != nil {
		log.Fatalf("Can't find configuration file '%s': %v", args.ConfigPath, err)
	}

	config, err := readConfig(configPath)
	if err != nil {
		log.Fatalf("Configuration file '%s' is wrong: %v", configPath, err)
	}
	if args.DataDir != "" {
		config.DataDir = args.DataDir
	}
	if args.OutputDir != "" {
		config.OutputDir = args.OutputDir
	}
	log.Printf("Using configuration: %+v", config)

	pages := NewPdftotextExtractor()
	brokers := []StatementExtractor{
		NewKasparundBroker(pages, config),
		NewTerzoBroker(pages, config),
		NewLibertyBroker(pages, config),
		NewSelmaBroker(config),
		NewN26Broker(config),
		NewSaxoXlsxBroker(config),
	}

	files, err := listStatementFiles(config.DataDir)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if len(files) == 0 {
		log.Printf("No statement files found in '%s', nothing to do.", config.DataDir)
		return
	}

	failed := 0
	for _, file := range files {
		if err := processStatementFile(brokers, file, config, args.DryRun); err != nil {
			log.Printf("Error: %v", err)
			failed++
		}
	}

	log.Printf("Processed %d of %d files.", len(files)-failed, len(files))
	if failed > 0 {
		os.Exit(1)
	}
}
