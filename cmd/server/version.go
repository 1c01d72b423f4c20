package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const serverVersion = "0.1.0"

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the server version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(serverVersion)
		},
	}
}
