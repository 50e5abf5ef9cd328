package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cognicore/glossary/pkg/glossary/store"
)

var (
	termsDomain string
	approvedBy  string
)

var termsCmd = &cobra.Command{
	Use:   "terms",
	Short: "Review stored glossary terms",
}

var termsPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List terms awaiting approval",
	RunE:  runTermsPending,
}

var termsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List terms of one business domain",
	RunE:  runTermsList,
}

var termsApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Mark a term as approved",
	Args:  cobra.ExactArgs(1),
	RunE:  runTermsApprove,
}

func init() {
	termsListCmd.Flags().StringVar(&termsDomain, "domain", "", "Business domain name")
	_ = termsListCmd.MarkFlagRequired("domain")
	termsApproveCmd.Flags().StringVar(&approvedBy, "by", "", "Reviewer name")
	_ = termsApproveCmd.MarkFlagRequired("by")
	termsCmd.AddCommand(termsPendingCmd, termsListCmd, termsApproveCmd)
	rootCmd.AddCommand(termsCmd)
}

func runTermsPending(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine(cmd.Context(), cfgFile, stoplistFile, "")
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	terms, err := eng.store.PendingTerms(cmd.Context())
	if err != nil {
		return err
	}
	return printTerms(cmd, terms)
}

func runTermsList(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine(cmd.Context(), cfgFile, stoplistFile, "")
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	terms, err := eng.store.TermsByDomain(cmd.Context(), termsDomain)
	if err != nil {
		return err
	}
	return printTerms(cmd, terms)
}

func runTermsApprove(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid term id %q", args[0])
	}
	eng, err := buildEngine(cmd.Context(), cfgFile, stoplistFile, "")
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	if err := eng.store.Approve(cmd.Context(), id, approvedBy); err != nil {
		return err
	}
	cmd.Printf("Approved term %d.\n", id)
	return nil
}

func printTerms(cmd *cobra.Command, terms []store.GlossaryTerm) error {
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), terms)
	}
	if len(terms) == 0 {
		cmd.Println("No terms found.")
		return nil
	}
	for _, t := range terms {
		printTerm(cmd.OutOrStdout(), t)
	}
	return nil
}

func printTerm(w io.Writer, t store.GlossaryTerm) {
	fmt.Fprintf(w, "%4d  %s", t.ID, t.Term)
	if t.BusinessDomain != "" {
		fmt.Fprintf(w, "  (%s)", t.BusinessDomain)
	}
	fmt.Fprintln(w)
	if t.Definition != "" {
		fmt.Fprintf(w, "      %s\n", t.Definition)
	}
	if len(t.Synonyms) > 0 {
		fmt.Fprintf(w, "      synonyms: %s\n", store.JoinSynonyms(t.Synonyms))
	}
}
