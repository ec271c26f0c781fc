// Package main is the entry point for the graphmail CLI, a Microsoft Graph
// mailbox reader and organizer.
//
// CLI Architecture:
//
//	The application implements a hierarchical command structure:
//	- Root command with global authentication and logging flags
//	- read: one-shot inbox listing and single-message display
//	- organize: one-shot subject-based organize pass
//	- serve: continuous mailbox polling server
//	- folders: mail folder listing and creation
//	- tokens: token cache diagnostics
//
// All Graph protocol work is delegated to msgraph-sdk-go; device-code
// authentication and token refresh are delegated to azidentity. The CLI
// itself only maps commands and configuration onto SDK calls.
//
// Example Usage:
//
//	graphmail read --unread --top 10
//	graphmail organize --term "daily stand up" --folder "daily meetings"
//	graphmail serve --status-addr :8097
//	graphmail tokens --check
package main

import (
	"log"
	"os"

	"graphmail.evalgo.org/cli"
)

// main executes the root command and exits non-zero on failure, so shell
// scripts and CI pipelines can react to errors.
func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		log.SetFlags(0)
		log.Println(err)
		os.Exit(1)
	}
}
