package pinecone

import (
	"github.com/kailas-cloud/pinecone-go/internal/dispatch"
	"github.com/kailas-cloud/pinecone-go/result"
)

func parseAccepted(body []byte) result.Result[Accepted] {
	return result.Map(dispatch.Raw(body), func(s string) result.Result[Accepted] {
		return result.Ok(Accepted(s))
	})
}

func parseAPIMetadata(body []byte) result.Result[APIMetadata] {
	return result.Map(dispatch.DecodeJSON[APIMetadata](body), func(m APIMetadata) result.Result[APIMetadata] {
		if m.ProjectName == "" {
			return result.ParsingFailed[APIMetadata]("whoami: missing project_name")
		}
		return result.Ok(m)
	})
}

func parseNames(body []byte) result.Result[[]string] {
	return result.Map(dispatch.DecodeJSON[[]string](body), func(names []string) result.Result[[]string] {
		if names == nil {
			names = []string{}
		}
		return result.Ok(names)
	})
}

func parseFetch(body []byte) result.Result[FetchResult] {
	return result.Map(dispatch.DecodeJSON[FetchResult](body), func(r FetchResult) result.Result[FetchResult] {
		for id, v := range r.Vectors {
			if v.ID == "" {
				v.ID = id
				r.Vectors[id] = v
			}
		}
		if r.Vectors == nil {
			r.Vectors = map[string]Vector{}
		}
		return result.Ok(r)
	})
}
