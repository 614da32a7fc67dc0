package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	pinecone "github.com/kailas-cloud/pinecone-go"
)

// textInput is one record of `vectors upsert --text`.
type textInput struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata pinecone.Metadata `json:"metadata,omitempty"`
}

func newVectorsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vectors",
		Aliases: []string{"vector"},
		Short:   "Read and write vectors of an index",
	}
	cmd.PersistentFlags().StringP("namespace", "n", "", "namespace inside the index")
	cmd.AddCommand(
		newVectorUpsertCmd(a),
		newVectorFetchCmd(a),
		newVectorQueryCmd(a),
		newVectorUpdateCmd(a),
		newVectorDeleteCmd(a),
		newVectorStatsCmd(a),
	)
	return cmd
}

func namespaceFlag(cmd *cobra.Command) string {
	ns, _ := cmd.Flags().GetString("namespace")
	return ns
}

func newVectorUpsertCmd(a *app) *cobra.Command {
	var (
		data string
		text bool
	)
	cmd := &cobra.Command{
		Use:   "upsert <index>",
		Short: "Insert or overwrite vectors",
		Long: `Insert or overwrite vectors.

--data takes a JSON array inline, @file or @- for stdin.
Without --text each element is {"id","values","metadata"}.
With --text each element is {"id","text","metadata"} and values are
computed by the configured embedding provider.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readArg(data)
			if err != nil {
				return err
			}
			vs := a.client.Vectors(args[0])
			ns := namespaceFlag(cmd)

			if text {
				var in []textInput
				if err := json.Unmarshal(raw, &in); err != nil {
					return fmt.Errorf("decode records: %w", err)
				}
				records := make([]pinecone.TextRecord, len(in))
				for i, r := range in {
					records[i] = pinecone.TextRecord{ID: r.ID, Text: r.Text, Metadata: r.Metadata}
				}
				return printResult(a, vs.UpsertText(cmd.Context(), ns, records...))
			}

			var vectors []pinecone.Vector
			if err := json.Unmarshal(raw, &vectors); err != nil {
				return fmt.Errorf("decode vectors: %w", err)
			}
			return printResult(a, vs.Upsert(cmd.Context(), pinecone.UpsertRequest{Vectors: vectors, Namespace: ns}))
		},
	}
	cmd.Flags().StringVar(&data, "data", "@-", "vectors as JSON, @file or @- for stdin")
	cmd.Flags().BoolVar(&text, "text", false, "embed record text instead of reading values")
	return cmd
}

func newVectorFetchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <index> <id>...",
		Short: "Fetch vectors by id",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResult(a, a.client.Vectors(args[0]).Fetch(cmd.Context(),
				pinecone.FetchRequest{IDs: args[1:], Namespace: namespaceFlag(cmd)}))
		},
	}
}

func newVectorQueryCmd(a *app) *cobra.Command {
	var (
		vector          string
		id              string
		text            string
		topK            int
		filterArg       string
		includeValues   bool
		includeMetadata bool
	)
	cmd := &cobra.Command{
		Use:   "query <index>",
		Short: "Find the nearest vectors",
		Long: `Find the nearest vectors to a query vector, a stored vector or a text.

Exactly one of --vector, --id and --text is required.
--filter takes a metadata filter as JSON, e.g. '{"genre":{"$in":["drama"]}}'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set := 0
			for _, v := range []string{vector, id, text} {
				if v != "" {
					set++
				}
			}
			if set != 1 {
				return errors.New("exactly one of --vector, --id and --text is required")
			}

			f, err := parseFilter(filterArg)
			if err != nil {
				return err
			}
			req := pinecone.QueryRequest{
				TopK:      topK,
				ID:        id,
				Namespace: namespaceFlag(cmd),
				Filter:    f,
			}
			if cmd.Flags().Changed("include-values") {
				req.IncludeValues = &includeValues
			}
			if cmd.Flags().Changed("include-metadata") {
				req.IncludeMetadata = &includeMetadata
			}
			if vector != "" {
				raw, err := readArg(vector)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(raw, &req.Vector); err != nil {
					return fmt.Errorf("decode vector: %w", err)
				}
			}

			vs := a.client.Vectors(args[0])
			if text != "" {
				return printResult(a, vs.QueryText(cmd.Context(), text, req))
			}
			return printResult(a, vs.Query(cmd.Context(), req))
		},
	}
	f := cmd.Flags()
	f.StringVar(&vector, "vector", "", "query vector as a JSON array")
	f.StringVar(&id, "id", "", "query by the values of a stored vector")
	f.StringVar(&text, "text", "", "query by the embedding of a text")
	f.IntVar(&topK, "top-k", 10, "number of matches")
	f.StringVar(&filterArg, "filter", "", "metadata filter as JSON")
	f.BoolVar(&includeValues, "include-values", false, "return vector values")
	f.BoolVar(&includeMetadata, "include-metadata", false, "return vector metadata")
	return cmd
}

func newVectorUpdateCmd(a *app) *cobra.Command {
	var (
		values   string
		metadata string
	)
	cmd := &cobra.Command{
		Use:   "update <index> <id>",
		Short: "Replace the values or merge the metadata of a vector",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := pinecone.UpdateRequest{ID: args[1], Namespace: namespaceFlag(cmd)}
			if values != "" {
				if err := json.Unmarshal([]byte(values), &req.Values); err != nil {
					return fmt.Errorf("decode values: %w", err)
				}
			}
			if metadata != "" {
				if err := json.Unmarshal([]byte(metadata), &req.SetMetadata); err != nil {
					return fmt.Errorf("decode metadata: %w", err)
				}
			}
			return printResult(a, a.client.Vectors(args[0]).Update(cmd.Context(), req))
		},
	}
	cmd.Flags().StringVar(&values, "values", "", "new values as a JSON array")
	cmd.Flags().StringVar(&metadata, "set-metadata", "", "metadata to merge as a JSON object")
	return cmd
}

func newVectorDeleteCmd(a *app) *cobra.Command {
	var (
		all       bool
		filterArg string
	)
	cmd := &cobra.Command{
		Use:   "delete <index> [id]...",
		Short: "Delete vectors by id, by filter or all of a namespace",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := args[1:]
			modes := 0
			if len(ids) > 0 {
				modes++
			}
			if all {
				modes++
			}
			if filterArg != "" {
				modes++
			}
			if modes != 1 {
				return errors.New("give ids, --all or --filter, and only one of them")
			}

			var req pinecone.DeleteRequest
			switch {
			case all:
				req = pinecone.DeleteAll()
			case filterArg != "":
				f, err := parseFilter(filterArg)
				if err != nil {
					return err
				}
				req = pinecone.DeleteWhere(f)
			default:
				req = pinecone.DeleteIDs(ids...)
			}
			return printResult(a, a.client.Vectors(args[0]).Delete(cmd.Context(), req.InNamespace(namespaceFlag(cmd))))
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "delete every vector of the namespace")
	cmd.Flags().StringVar(&filterArg, "filter", "", "delete vectors matching a JSON filter")
	return cmd
}

func newVectorStatsCmd(a *app) *cobra.Command {
	var filterArg string
	cmd := &cobra.Command{
		Use:   "stats <index>",
		Short: "Show vector counts per namespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vs := a.client.Vectors(args[0])
			if filterArg == "" {
				return printResult(a, vs.DescribeIndexStats(cmd.Context()))
			}
			f, err := parseFilter(filterArg)
			if err != nil {
				return err
			}
			return printResult(a, vs.DescribeFilteredIndexStats(cmd.Context(), f))
		},
	}
	cmd.Flags().StringVar(&filterArg, "filter", "", "count only vectors matching a JSON filter")
	return cmd
}
