// Command site-api serves the article and job posting API.
//
// @title                       Site API
// @version                     1.0
// @description                 Content API for articles and job postings with an admin session.
// @BasePath                    /
// @securityDefinitions.apikey  CookieAuth
// @in                          header
// @name                        Cookie
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:          "site-api",
		Short:        "Content API for articles and job postings",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return loadEnvFile(envFile)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment (skipped when missing)")

	root.AddCommand(newServeCmd(), newSeedAdminCmd())
	return root
}

// loadEnvFile loads path into the process environment without overriding
// variables that are already set.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
