// Package config loads and composes the application configuration.
//
// Configuration is assembled from partial Config structs owned by the
// packages they configure (server, logger, database, storage, pos). Values
// come from environment variables, optionally seeded by a .env file, with
// defaults taken from the 'default' struct tags.
//
// Environment variables map onto nested keys by replacing dots with
// underscores, e.g. DATABASE_HOST -> database.host, POS_APP_ID -> pos.app_id.
package config
