// Package config fills structs from environment variables using caarlos0/env
// struct tags.
//
// Three entry points share one parser:
//
//   - Parse reads the environment into cfg every time it is called.
//   - Load does the same the first time a type is requested and caches the
//     result keyed by the type, so later calls for that type copy the cached
//     value even if the environment changed since.
//   - Reset drops every cached type. Tests that set variables with t.Setenv
//     use Parse, or Reset before Load.
//
// MustLoad panics where Load would return an error and is meant for startup.
//
// A .env file in the working directory is read once per process on the first
// Parse or Load. Variables already present in the environment win over the
// file, and a missing file is not an error. A malformed file makes every
// call fail with ErrDotenv; tag or value errors are wrapped in ErrParse.
//
// The service config nests the per-package structs, each with its own prefix:
//
//	type Config struct {
//		Server server.Config // SERVER_*
//		DB     pg.Config     // PG_*
//		Redis  redis.Config  // REDIS_*
//		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
package config
