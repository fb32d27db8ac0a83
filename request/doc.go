// Package request turns catalog request descriptors into cached HTTP calls.
//
// A Request is an immutable description of one logical fetch: an endpoint,
// its query parameters, an optional JSON body and a cache lifetime. Client
// derives a deterministic cache key for it, serves the response from the
// configured Store when possible and otherwise performs the HTTP call,
// decodes the JSON body and writes it back.
//
//	req := request.New("search/movie", request.Params{"query": "Star Wars", "year": 1977})
//	v, err := client.Execute(ctx, req)
//
// A lifetime of NoCache bypasses the store entirely. Requests that change
// state on the server (ratings, favourites, watchlists) must use it.
package request
