package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lcmonte",
		Short: "Monte Carlo light-curve simulation and timescale statistics",
	}

	rootCmd.AddCommand(
		newSimulateCmd(),
		newHeaderCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
