// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the pipeconf CLI commands.
//
// Commands are built per App so tests can inject configuration and output
// writers. Execute builds the production App and runs the tree with fang.
package cmd
