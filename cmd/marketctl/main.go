// Command marketctl is a CLI client for the marketplace: browse and search
// listings, manage favorites, and create, edit, or delete your own.
package main

import "github.com/vlasovmk/marketctl/cmd/marketctl/cmd"

func main() {
	cmd.Execute()
}
