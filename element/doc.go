// Package element implements remote-backed objects with lazily fetched fields.
//
// A Type is a table of Field declarations plus one Resolver per field group.
// Reading a field that is not yet in an Element's backing store runs the
// resolver for its group, executes the resulting request, merges the JSON
// object into the store and then converts the requested value. Children
// built from nested JSON inherit the parent's Env and start with every
// group they were given in full already resolved, so they never refetch
// what the parent already had.
//
//	movie := element.New(env, tmdb.MovieType, element.Args{"id": 11})
//	title, err := movie.GetString(ctx, "title")
package element
