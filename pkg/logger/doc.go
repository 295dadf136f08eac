// Package logger provides a thin factory around Go's slog package plus
// helper attribute constructors that keep attribute naming consistent
// across the engine.
//
// New builds a *slog.Logger configured by Option functions: output format
// (text or json), minimum level, default attributes, and handler options.
// The attr helpers (Error, AccountID, Component, ...) exist so that log
// records are queryable by stable keys in aggregation systems.
//
// Secret material - seeds, ciphertexts, challenge tokens, codes - must
// never be passed to any attribute.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithProduction("mfakit"),
//	)
//	log.Info("two-factor enabled", logger.AccountID(id), logger.Component("twofactor"))
package logger
