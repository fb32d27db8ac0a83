// Package tmdb provides lazily resolved access to The Movie Database API.
//
// Entities such as movies, series and people are handles. Constructing one
// costs nothing; the first read of a field fetches the endpoint group that
// carries it, and every later read of any field in that group is served from
// memory. Responses go through a shared cache so separate handles, and
// separate processes when the remote engine is in use, reuse them.
//
// # Architecture
//
// The package sits on top of several smaller ones:
//
//   - cache: pluggable response store (none, SQLite file, Redis)
//   - request: endpoint + parameters, cache keys, the fetch pipeline
//   - element: the lazy entity model driving per-group resolution
//   - pager: random access over paginated list endpoints
//   - locale: language/country pair attached to every request
//
// # Usage
//
// Create a cache and a client with your API key:
//
//	logger := zerolog.New(os.Stderr)
//	store := cache.New(logger)
//	if err := store.Configure(ctx, "file", cache.Options{}); err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//
//	client, err := tmdb.NewClient("your-api-key", store, logger,
//		tmdb.WithLocale(locale.New("en", "US", false)),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	results := client.SearchMovies("Star Wars", tmdb.MovieSearch{Year: 1977})
//	movie, err := results.At(ctx, 0)
//	if err != nil {
//		log.Fatal(err)
//	}
//	tagline, err := movie.Tagline(ctx) // fetches movie/11 once
//
// # Locales
//
// The client locale fills the language parameter of localized endpoints.
// Image and release lookups drop their language or country filter when the
// locale has Fallthrough set, so every variant comes back and the ones
// matching the locale sort first. Use Client.In to derive a client for
// another locale that shares the same pipeline.
//
// # Error Handling
//
// Fetch failures surface as *request.FetchError from the accessor that
// triggered them; the group stays unresolved and the next read retries.
// Local checks fail before any request is sent:
//
//   - ErrNoSession: account operation without WithSession
//   - ValidationError: rating or image size out of range (matches ErrInvalid)
package tmdb
