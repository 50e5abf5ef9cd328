package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	stoplistFile string
	domainsFile  string
	envFile      string
	jsonOutput   bool
)

var rootCmd = &cobra.Command{
	Use:   "glossary",
	Short: "Extract business glossary terms from documents",
	Long: `glossary reads PDF and DOCX documents, proposes domain terms that are
not yet in the business glossary, enriches them with definitions and
stores them for review.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile == "" {
			return nil
		}
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			logrus.WithError(err).Warnf("could not load env file %s", envFile)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to glossary config YAML")
	rootCmd.PersistentFlags().StringVar(&stoplistFile, "stoplist", "", "Extra stopword list YAML")
	rootCmd.PersistentFlags().StringVar(&domainsFile, "domains", "", "Business domain seed YAML")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "Environment file with API keys")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
