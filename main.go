// SPDX-License-Identifier: MPL-2.0

package main

import cmd "gh-release-dl/cmd/gh-release-dl"

func main() {
	cmd.Execute()
}
