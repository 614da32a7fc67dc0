// Package pinecone is a Go client for the Pinecone vector database REST API.
//
// New performs the WhoAmI bootstrap call and returns a Client whose services
// cover the control plane (indexes, collections) and the data plane
// (vectors). Every call returns a result.Result: either the parsed value or
// exactly one classified failure (transport rejected, request failed,
// parsing failed).
//
//	client, err := pinecone.New(ctx,
//	    pinecone.WithEnvironment("us-west1-gcp"),
//	    pinecone.WithAPIKey(os.Getenv("PINECONE_API_KEY")),
//	)
//	if err != nil {
//	    return err
//	}
//
//	names, err := client.Indexes().List(ctx).Unwrap()
//
//	res := client.Vectors("movies").Query(ctx, pinecone.QueryRequest{
//	    TopK:   5,
//	    Vector: embedding,
//	    Filter: filter.Or(
//	        filter.Eq("title", filter.String("Marvel_Comics")),
//	        filter.Eq("title", filter.String("PlayStation_3")),
//	    ),
//	})
//	if res.IsErr() {
//	    if apiErr, ok := res.Err().APIError(); ok {
//	        log.Printf("server said %d: %s", apiErr.Code, apiErr.Message)
//	    }
//	}
//
// # Typed indexes
//
// NewTypedIndex maps a tagged struct to vectors and metadata:
//
//	type Movie struct {
//	    ID    string    `pinecone:"id"`
//	    Emb   []float32 `pinecone:"values"`
//	    Title string    `pinecone:"title"`
//	    Year  int       `pinecone:"year"`
//	}
//
//	movies, _ := pinecone.NewTypedIndex[Movie](client, "movies")
//	hits, err := movies.Search().Vector(v).Where(filter.Gte("year", filter.Int(2000))).TopK(10).Do(ctx).Unwrap()
package pinecone
