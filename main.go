// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/ekgame/uiua-boo/cmd/boo"

func main() {
	cmd.Execute()
}
