package main

import (
	"github.com/spf13/cobra"

	pinecone "github.com/kailas-cloud/pinecone-go"
)

func newCollectionsCmd(a *app) *cobra.Command {
	var source string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Snapshot an index into a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResult(a, a.client.Collections().Create(cmd.Context(),
				pinecone.NewCollection{Name: args[0], Source: source}))
		},
	}
	create.Flags().StringVar(&source, "source", "", "source index (required)")
	_ = create.MarkFlagRequired("source")

	cmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"collection"},
		Short:   "Manage collections",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List collection names",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return printResult(a, a.client.Collections().List(cmd.Context()))
			},
		},
		&cobra.Command{
			Use:   "describe <name>",
			Short: "Show the size and status of a collection",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return printResult(a, a.client.Collections().Describe(cmd.Context(), args[0]))
			},
		},
		create,
		&cobra.Command{
			Use:   "delete <name>",
			Short: "Delete a collection",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return printResult(a, a.client.Collections().Delete(cmd.Context(), args[0]))
			},
		},
	)
	return cmd
}
