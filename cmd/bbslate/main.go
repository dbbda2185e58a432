package main

import (
	"context"
	"flag"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/athapong/bbslate/pkg/config"
	"github.com/athapong/bbslate/pkg/rules"
	"github.com/athapong/bbslate/pkg/transducer"
)

var (
	envFile   = flag.String("env", ".env", "Path to environment file")
	inputDir  = flag.String("input", "", "Directory containing input files")
	outputDir = flag.String("output", "out", "Directory the converted files are written to")
	direction = flag.String("direction", directionDeserialize, "Conversion direction (deserialize, serialize)")
	nodeType  = flag.String("type", "", "Top-level node kind kept when deserializing (block, inline)")
	logLevel  = flag.String("log-level", "info", "Logging level (debug, info, warn, error)")
)

func main() {
	flag.Parse()

	// Configure logging
	logger := logrus.New()
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatalf("Invalid log level: %v", err)
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if *inputDir == "" {
		logger.Fatal("Input directory must be specified")
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	allowedTags := cfg.AllowedTags
	if allowedTags == nil {
		allowedTags = rules.Tags()
	}

	typ := cfg.DeserializeType
	if *nodeType != "" {
		typ = *nodeType
	}

	b := &batch{
		transducer: transducer.New(rules.Standard(), allowedTags, transducer.WithLogger(logger)),
		logger:     logger.WithField("run_id", uuid.NewString()),
		inputDir:   *inputDir,
		outputDir:  *outputDir,
		direction:  *direction,
		nodeType:   typ,
		separator:  cfg.BlockSeparator,
	}

	converted, err := b.run(context.Background())
	if err != nil {
		logger.Fatalf("Conversion failed: %v", err)
	}

	logger.Infof("Converted %d files into %s", converted, *outputDir)
}
