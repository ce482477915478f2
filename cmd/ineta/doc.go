// Package main hosts the ineta CLI entrypoint and command graph.
//
// The Cobra-based command tree runs pipeline steps against the checkpoint
// store, renders stored networks and matches, inspects reference libraries,
// and scaffolds configuration. It centralizes configuration resolution and
// logger setup so subcommands can focus on presentation.
//
// Keep this package lean: add functionality to the internal packages first,
// then surface it through dedicated commands or flags here.
package main
