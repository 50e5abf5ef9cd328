package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/glossary/pkg/glossary/config"
)

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "Manage business domains used for classification",
}

var domainsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert business domains from the --domains file",
	RunE:  runDomainsSeed,
}

var domainsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored business domains",
	RunE:  runDomainsList,
}

func init() {
	domainsCmd.AddCommand(domainsSeedCmd, domainsListCmd)
	rootCmd.AddCommand(domainsCmd)
}

func runDomainsSeed(cmd *cobra.Command, args []string) error {
	if domainsFile == "" {
		return errors.New("--domains is required")
	}
	seeds, err := config.LoadDomains(domainsFile)
	if err != nil {
		return err
	}
	eng, err := buildEngine(cmd.Context(), cfgFile, stoplistFile, "")
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	n, err := eng.glossary.SeedDomains(cmd.Context(), config.SeedDomains(seeds))
	if err != nil {
		return err
	}
	cmd.Printf("Seeded %d business domains.\n", n)
	return nil
}

func runDomainsList(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine(cmd.Context(), cfgFile, stoplistFile, "")
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	domains, err := eng.store.Domains(cmd.Context())
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), domains)
	}
	if len(domains) == 0 {
		cmd.Println("No business domains found.")
		return nil
	}
	for _, d := range domains {
		fmt.Fprintf(cmd.OutOrStdout(), "%4d  %-30s %s\n", d.ID, d.Name, d.Category)
	}
	return nil
}
