package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"permit-workflow-backend/initializers"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  `Connect to the database, apply schema migrations and create the ICT admin account, then exit.`,
	Run: func(cmd *cobra.Command, args []string) {
		initializers.InitStorage(true)
		log.Info("migrations applied")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
