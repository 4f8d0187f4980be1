// Command weaver boots the schema-weaving proxy: it loads a
// configuration document, weaves the configured upstream endpoints
// into one merged schema, and serves it over HTTP.
package main

import (
	"context"
	"flag"
	"net/http"

	"github.com/FX-HAO/graphql-weaver/config"
	"github.com/FX-HAO/graphql-weaver/internal/weaver"
	"github.com/FX-HAO/graphql-weaver/log"
	"github.com/FX-HAO/graphql-weaver/server"
)

func main() {
	configPath := flag.String("config", "weaver.json", "path to the configuration document")
	listen := flag.String("listen", "", "listen address, overriding the configuration document")
	flag.Parse()

	logger := log.Get()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.WithError(err).Fatal("loading configuration")
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	schema, err := weaver.Weave(context.Background(), cfg.Endpoints, weaver.LogReporter(logger))
	if err != nil {
		logger.WithError(err).Fatal("weaving schema")
	}

	logger.WithField("listen", cfg.Listen).Info("serving woven schema")
	if err := http.ListenAndServe(cfg.Listen, server.New(schema)); err != nil {
		logger.WithError(err).Fatal("serving http")
	}
}
