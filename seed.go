package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"permit-workflow-backend/db"
	"permit-workflow-backend/initializers"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create demo users for every workflow role",
	Long: `Create one active account per workflow role.

Existing accounts are left untouched.`,
	Run: func(cmd *cobra.Command, args []string) {
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			fmt.Fprintln(os.Stderr, "error: --password is required")
			os.Exit(1)
		}
		initializers.InitStorage(false)
		if err := db.SeedDemoUsers(password); err != nil {
			fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
			os.Exit(1)
		}
		log.Info("demo users seeded")
	},
}

func init() {
	seedCmd.Flags().String("password", "", "password for the demo accounts")
	rootCmd.AddCommand(seedCmd)
}
