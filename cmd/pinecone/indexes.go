package main

import (
	"github.com/spf13/cobra"

	pinecone "github.com/kailas-cloud/pinecone-go"
)

func newIndexesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "indexes",
		Aliases: []string{"index"},
		Short:   "Manage indexes",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List index names",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return printResult(a, a.client.Indexes().List(cmd.Context()))
			},
		},
		&cobra.Command{
			Use:   "describe <name>",
			Short: "Show the configuration and status of an index",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return printResult(a, a.client.Indexes().Describe(cmd.Context(), args[0]))
			},
		},
		newIndexCreateCmd(a),
		newIndexConfigureCmd(a),
		&cobra.Command{
			Use:   "delete <name>",
			Short: "Delete an index",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return printResult(a, a.client.Indexes().Delete(cmd.Context(), args[0]))
			},
		},
	)
	return cmd
}

func newIndexCreateCmd(a *app) *cobra.Command {
	var (
		dimension  int
		metric     string
		pods       int
		podType    string
		replicas   int
		shards     int
		indexed    []string
		collection string
		ifMissing  bool
	)
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []pinecone.IndexOption{pinecone.WithMetric(pinecone.Metric(metric))}
			if pods > 0 || podType != "" {
				opts = append(opts, pinecone.WithPods(pods, podType))
			}
			if replicas > 0 {
				opts = append(opts, pinecone.WithReplicas(replicas))
			}
			if shards > 0 {
				opts = append(opts, pinecone.WithShards(shards))
			}
			if len(indexed) > 0 {
				opts = append(opts, pinecone.WithIndexedMetadata(indexed...))
			}
			if collection != "" {
				opts = append(opts, pinecone.FromCollection(collection))
			}
			spec := pinecone.Index(args[0], dimension, opts...)

			if ifMissing {
				return printResult(a, a.client.Indexes().Ensure(cmd.Context(), spec))
			}
			return printResult(a, a.client.Indexes().Create(cmd.Context(), spec))
		},
	}
	f := cmd.Flags()
	f.IntVar(&dimension, "dimension", 0, "vector dimension (required)")
	f.StringVar(&metric, "metric", string(pinecone.MetricCosine), "similarity metric: cosine, euclidean, dotproduct")
	f.IntVar(&pods, "pods", 0, "number of pods")
	f.StringVar(&podType, "pod-type", "", "pod type, e.g. p1.x1")
	f.IntVar(&replicas, "replicas", 0, "number of replicas")
	f.IntVar(&shards, "shards", 0, "number of shards")
	f.StringSliceVar(&indexed, "indexed", nil, "metadata fields indexed for filtering")
	f.StringVar(&collection, "from-collection", "", "create the index from a collection")
	f.BoolVar(&ifMissing, "if-missing", false, "succeed when the index already exists")
	_ = cmd.MarkFlagRequired("dimension")
	return cmd
}

func newIndexConfigureCmd(a *app) *cobra.Command {
	var (
		replicas int
		podType  string
	)
	cmd := &cobra.Command{
		Use:   "configure <name>",
		Short: "Change the replica count and pod type of an index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResult(a, a.client.Indexes().Configure(cmd.Context(), args[0],
				pinecone.IndexConfiguration{Replicas: replicas, PodType: podType}))
		},
	}
	cmd.Flags().IntVar(&replicas, "replicas", 1, "number of replicas")
	cmd.Flags().StringVar(&podType, "pod-type", "p1.x1", "pod type")
	return cmd
}
