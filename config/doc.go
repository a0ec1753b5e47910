/*
Package config reads memorystore settings from flags, MEMSTORE_* environment
variables and optional .env files, and builds the logger and storage adapter
they describe.

	config.LoadEnvFiles()
	cfg, err := config.Load(cmd.Flags())
	logger, err := config.NewLogger(cfg.LogLevel)
	adapter, err := cfg.NewAdapter(ctx, logger)
*/
package config
