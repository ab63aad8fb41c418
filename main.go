// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/pipeconf/pipeconf/cmd/pipeconf"

func main() {
	cmd.Execute()
}
