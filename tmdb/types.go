package tmdb

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/s0up4200/tmdb3/element"
	"github.com/s0up4200/tmdb3/request"
)

// Resolver groups shared by several types
const (
	groupCredits     element.Group = "credits"
	groupImages      element.Group = "images"
	groupTitles      element.Group = "titles"
	groupCast        element.Group = "cast"
	groupKeywords    element.Group = "keywords"
	groupReleases    element.Group = "releases"
	groupTrailers    element.Group = "trailers"
	groupTranslation element.Group = "translations"
	groupExternalIDs element.Group = "external_ids"
)

// Field tables. Types refer to each other, so the tables are filled in init.
var (
	ImageType          = &element.Type{Name: "Image"}
	PosterType         = &element.Type{Name: "Poster"}
	BackdropType       = &element.Type{Name: "Backdrop"}
	ProfileType        = &element.Type{Name: "Profile"}
	LogoType           = &element.Type{Name: "Logo"}
	StillType          = &element.Type{Name: "Still"}
	AlternateTitleType = &element.Type{Name: "AlternateTitle"}
	PersonType         = &element.Type{Name: "Person"}
	CastType           = &element.Type{Name: "Cast"}
	CrewType           = &element.Type{Name: "Crew"}
	KeywordType        = &element.Type{Name: "Keyword"}
	ReleaseType        = &element.Type{Name: "Release"}
	TrailerType        = &element.Type{Name: "Trailer"}
	AppleTrailerType   = &element.Type{Name: "AppleTrailer"}
	TranslationType    = &element.Type{Name: "Translation"}
	GenreType          = &element.Type{Name: "Genre"}
	StudioType         = &element.Type{Name: "Studio"}
	NetworkType        = &element.Type{Name: "Network"}
	CountryType        = &element.Type{Name: "Country"}
	LanguageType       = &element.Type{Name: "Language"}
	MovieType          = &element.Type{Name: "Movie"}
	ReverseCastType    = &element.Type{Name: "ReverseCast"}
	ReverseCrewType    = &element.Type{Name: "ReverseCrew"}
	CollectionType     = &element.Type{Name: "Collection"}
	ListType           = &element.Type{Name: "List"}
	SeriesType         = &element.Type{Name: "Series"}
	SeasonType         = &element.Type{Name: "Season"}
	EpisodeType        = &element.Type{Name: "Episode"}
)

func init() {
	initImages()
	initPeople()
	initSmallTypes()
	initMovies()
	initSeries()
}

func initImages() {
	ImageType.InitArgs = []string{"filename"}
	ImageType.Fields = []element.Field{
		element.Point("filename", "file_path").As(element.TrimSlash),
		element.Point("aspect_ratio", "aspect_ratio"),
		element.Point("height", "height"),
		element.Point("width", "width"),
		element.Point("language", "iso_639_1"),
		element.Point("userrating", "vote_average"),
		element.Point("votes", "vote_count"),
	}
	ImageType.Describe = describeImage

	for _, t := range []*element.Type{PosterType, BackdropType, ProfileType, LogoType, StillType} {
		t.Base = ImageType
	}
}

func initPeople() {
	PersonType.InitArgs = []string{"id"}
	PersonType.Fields = []element.Field{
		element.Point("id", "id"),
		element.Point("name", "name"),
		element.Point("biography", "biography"),
		element.Point("birthday", "birthday").As(element.Date),
		element.Point("deathday", "deathday").As(element.Date),
		element.Point("homepage", "homepage"),
		element.Point("birthplace", "place_of_birth"),
		element.Point("profile", "profile_path").As(element.EntityArg).Of(ProfileType),
		element.Point("adult", "adult"),
		element.List("aliases", "also_known_as"),
		element.List("roles", "cast").Of(ReverseCastType).From(groupCredits),
		element.List("crew", "crew").Of(ReverseCrewType).From(groupCredits),
		element.List("profiles", "profiles").Of(ProfileType).From(groupImages),
	}
	PersonType.Resolvers = map[element.Group]element.Resolver{
		element.Primary: resolve("person/%s", []string{"id"}, nil),
		groupCredits:    resolve("person/%s/credits", []string{"id"}, withLanguage),
		groupImages:     resolve("person/%s/images", []string{"id"}, nil),
	}
	PersonType.Describe = describeNamed

	CastType.Base = PersonType
	CastType.Fields = []element.Field{
		element.Point("character", "character"),
		element.Point("order", "order"),
	}

	CrewType.Base = PersonType
	CrewType.Fields = []element.Field{
		element.Point("job", "job"),
		element.Point("department", "department"),
	}
}

func initSmallTypes() {
	AlternateTitleType.Fields = []element.Field{
		element.Point("country", "iso_3166_1"),
		element.Point("title", "title"),
	}

	KeywordType.Fields = []element.Field{
		element.Point("id", "id"),
		element.Point("name", "name"),
	}
	KeywordType.Describe = describeNamed

	ReleaseType.Fields = []element.Field{
		element.Point("certification", "certification"),
		element.Point("country", "iso_3166_1"),
		element.Point("releasedate", "release_date").As(element.Date),
	}

	TrailerType.Fields = []element.Field{
		element.Point("name", "name"),
		element.Point("size", "size"),
		element.Point("source", "source"),
	}
	TrailerType.Describe = describeNamed

	AppleTrailerType.Fields = []element.Field{
		element.Point("name", "name"),
		element.Dict("sources", "sources", "size").Of(TrailerType),
	}
	AppleTrailerType.Describe = describeNamed

	TranslationType.Fields = []element.Field{
		element.Point("name", "name"),
		element.Point("language", "iso_639_1"),
		element.Point("englishname", "english_name"),
	}
	TranslationType.Describe = describeNamed

	GenreType.InitArgs = []string{"id"}
	GenreType.Fields = []element.Field{
		element.Point("id", "id"),
		element.Point("name", "name"),
	}
	GenreType.Describe = describeNamed

	StudioType.InitArgs = []string{"id"}
	StudioType.Fields = []element.Field{
		element.Point("id", "id"),
		element.Point("name", "name"),
		element.Point("description", "description"),
		element.Point("headquarters", "headquarters"),
		element.Point("logo", "logo_path").As(element.EntityArg).Of(LogoType),
		element.Point("parent", "parent_company").Of(StudioType),
	}
	StudioType.Resolvers = map[element.Group]element.Resolver{
		element.Primary: resolve("company/%s", []string{"id"}, nil),
	}
	StudioType.Describe = describeNamed

	NetworkType.Fields = []element.Field{
		element.Point("id", "id"),
		element.Point("name", "name"),
	}
	NetworkType.Describe = describeNamed

	CountryType.Fields = []element.Field{
		element.Point("code", "iso_3166_1"),
		element.Point("name", "name"),
	}
	CountryType.Describe = describeNamed

	LanguageType.Fields = []element.Field{
		element.Point("code", "iso_639_1"),
		element.Point("name", "name"),
	}
	LanguageType.Describe = describeNamed

	ListType.InitArgs = []string{"id"}
	ListType.Fields = []element.Field{
		element.Point("id", "id"),
		element.Point("name", "name"),
		element.Point("author", "created_by"),
		element.Point("description", "description"),
		element.Point("favorites", "favorite_count"),
		element.Point("language", "iso_639_1"),
		element.Point("count", "item_count"),
		element.Point("poster", "poster_path").As(element.EntityArg).Of(PosterType),
		element.List("members", "items").Of(MovieType),
	}
	ListType.Resolvers = map[element.Group]element.Resolver{
		element.Primary: resolve("list/%s", []string{"id"}, nil),
	}
	ListType.Describe = describeNamed
}

func initMovies() {
	MovieType.InitArgs = []string{"id"}
	MovieType.Fields = []element.Field{
		element.Point("id", "id"),
		element.Point("title", "title"),
		element.Point("originaltitle", "original_title"),
		element.Point("tagline", "tagline"),
		element.Point("overview", "overview"),
		element.Point("runtime", "runtime"),
		element.Point("budget", "budget"),
		element.Point("revenue", "revenue"),
		element.Point("releasedate", "release_date").As(element.Date),
		element.Point("homepage", "homepage"),
		element.Point("imdb", "imdb_id"),
		element.Point("backdrop", "backdrop_path").As(element.EntityArg).Of(BackdropType),
		element.Point("poster", "poster_path").As(element.EntityArg).Of(PosterType),
		element.Point("popularity", "popularity"),
		element.Point("userrating", "vote_average"),
		element.Point("votes", "vote_count"),
		element.Point("adult", "adult"),
		element.Point("collection", "belongs_to_collection").Of(CollectionType),
		element.List("genres", "genres").Of(GenreType),
		element.List("studios", "production_companies").Of(StudioType),
		element.List("countries", "production_countries").Of(CountryType),
		element.List("languages", "spoken_languages").Of(LanguageType),

		element.List("alternate_titles", "titles").Of(AlternateTitleType).From(groupTitles).SortBy(element.OrderByCountry),
		element.List("cast", "cast").Of(CastType).From(groupCast).SortBy(element.OrderByKey),
		element.List("crew", "crew").Of(CrewType).From(groupCast),
		element.List("backdrops", "backdrops").Of(BackdropType).From(groupImages).SortBy(element.OrderByLanguage),
		element.List("posters", "posters").Of(PosterType).From(groupImages).SortBy(element.OrderByLanguage),
		element.List("keywords", "keywords").Of(KeywordType).From(groupKeywords),
		element.Dict("releases", "countries", "iso_3166_1").Of(ReleaseType).From(groupReleases),
		element.List("youtube_trailers", "youtube").Of(TrailerType).From(groupTrailers),
		element.List("apple_trailers", "quicktime").Of(AppleTrailerType).From(groupTrailers),
		element.List("translations", "translations").Of(TranslationType).From(groupTranslation),
	}
	MovieType.Resolvers = map[element.Group]element.Resolver{
		element.Primary:  resolve("movie/%s", []string{"id"}, withLanguage),
		groupTitles:      resolve("movie/%s/alternative_titles", []string{"id"}, withCountry),
		groupCast:        resolve("movie/%s/casts", []string{"id"}, nil),
		groupImages:      resolve("movie/%s/images", []string{"id"}, withImageLanguage),
		groupKeywords:    resolve("movie/%s/keywords", []string{"id"}, nil),
		groupReleases:    resolve("movie/%s/releases", []string{"id"}, nil),
		groupTrailers:    resolve("movie/%s/trailers", []string{"id"}, withLanguage),
		groupTranslation: resolve("movie/%s/translations", []string{"id"}, nil),
	}
	MovieType.Describe = describeMovie

	ReverseCastType.Base = MovieType
	ReverseCastType.Fields = []element.Field{
		element.Point("character", "character"),
	}

	ReverseCrewType.Base = MovieType
	ReverseCrewType.Fields = []element.Field{
		element.Point("department", "department"),
		element.Point("job", "job"),
	}

	CollectionType.InitArgs = []string{"id"}
	CollectionType.Fields = []element.Field{
		element.Point("id", "id"),
		element.Point("name", "name"),
		element.Point("backdrop", "backdrop_path").As(element.EntityArg).Of(BackdropType),
		element.Point("poster", "poster_path").As(element.EntityArg).Of(PosterType),
		element.List("members", "parts").Of(MovieType),
		element.Point("overview", "overview"),
		element.List("backdrops", "backdrops").Of(BackdropType).From(groupImages).SortBy(element.OrderByLanguage),
		element.List("posters", "posters").Of(PosterType).From(groupImages).SortBy(element.OrderByLanguage),
	}
	CollectionType.Resolvers = map[element.Group]element.Resolver{
		element.Primary: resolve("collection/%s", []string{"id"}, withLanguage),
		groupImages:     resolve("collection/%s/images", []string{"id"}, withImageLanguage),
	}
	CollectionType.Describe = describeNamed
}

func initSeries() {
	EpisodeType.InitArgs = []string{"series_id", "season_number", "episode_number"}
	EpisodeType.Fields = []element.Field{
		element.Point("series_id", "series_id"),
		element.Point("season_number", "season_number"),
		element.Point("episode_number", "episode_number"),
		element.Point("id", "id"),
		element.Point("name", "name"),
		element.Point("overview", "overview"),
		element.Point("air_date", "air_date").As(element.Date),
		element.Point("userrating", "vote_average"),
		element.Point("votes", "vote_count"),
		element.Point("production_code", "production_code"),
		element.Point("still", "still_path").As(element.EntityArg).Of(StillType),

		element.List("cast", "cast").Of(CastType).From(groupCredits).SortBy(element.OrderByKey),
		element.List("guest_stars", "guest_stars").Of(CastType).From(groupCredits).SortBy(element.OrderByKey),
		element.List("crew", "crew").Of(CrewType).From(groupCredits),

		element.Point("imdb_id", "imdb_id").From(groupExternalIDs),
		element.Point("freebase_id", "freebase_id").From(groupExternalIDs),
		element.Point("freebase_mid", "freebase_mid").From(groupExternalIDs),
		element.Point("tvdb_id", "tvdb_id").From(groupExternalIDs),
		element.Point("tvrage_id", "tvrage_id").From(groupExternalIDs),

		element.List("stills", "stills").Of(StillType).From(groupImages).SortBy(element.OrderByLanguage),
	}
	episode := []string{"series_id", "season_number", "episode_number"}
	EpisodeType.Resolvers = map[element.Group]element.Resolver{
		element.Primary:  resolve("tv/%s/season/%s/episode/%s", episode, withLanguage),
		groupCredits:     resolve("tv/%s/season/%s/episode/%s/credits", episode, nil),
		groupExternalIDs: resolve("tv/%s/season/%s/episode/%s/external_ids", episode, nil),
		groupImages:      resolve("tv/%s/season/%s/episode/%s/images", episode, withImageLanguage),
	}
	EpisodeType.Describe = describeEpisode

	SeasonType.InitArgs = []string{"series_id", "season_number"}
	SeasonType.Fields = []element.Field{
		element.Point("series_id", "series_id"),
		element.Point("season_number", "season_number"),
		element.Point("id", "id"),
		element.Point("name", "name"),
		element.Point("overview", "overview"),
		element.Point("air_date", "air_date").As(element.Date),
		element.Point("poster", "poster_path").As(element.EntityArg).Of(PosterType),
		element.Dict("episodes", "episodes", "episode_number").Of(EpisodeType).Pass(map[string]string{
			"series_id":     "series_id",
			"season_number": "season_number",
		}),

		element.List("posters", "posters").Of(PosterType).From(groupImages).SortBy(element.OrderByLanguage),

		element.Point("freebase_id", "freebase_id").From(groupExternalIDs),
		element.Point("freebase_mid", "freebase_mid").From(groupExternalIDs),
		element.Point("tvdb_id", "tvdb_id").From(groupExternalIDs),
		element.Point("tvrage_id", "tvrage_id").From(groupExternalIDs),
	}
	season := []string{"series_id", "season_number"}
	SeasonType.Resolvers = map[element.Group]element.Resolver{
		element.Primary:  resolve("tv/%s/season/%s", season, withLanguage),
		groupImages:      resolve("tv/%s/season/%s/images", season, withImageLanguage),
		groupExternalIDs: resolve("tv/%s/season/%s/external_ids", season, nil),
	}
	SeasonType.Describe = describeSeason

	SeriesType.InitArgs = []string{"id"}
	SeriesType.Fields = []element.Field{
		element.Point("id", "id"),
		element.Point("name", "name"),
		element.Point("original_name", "original_name"),
		element.Point("overview", "overview"),
		element.Point("homepage", "homepage"),
		element.Point("status", "status"),
		element.Point("popularity", "popularity"),
		element.Point("userrating", "vote_average"),
		element.Point("votes", "vote_count"),
		element.Point("in_production", "in_production"),
		element.Point("first_air_date", "first_air_date").As(element.Date),
		element.Point("last_air_date", "last_air_date").As(element.Date),
		element.Point("number_of_episodes", "number_of_episodes"),
		element.Point("number_of_seasons", "number_of_seasons"),
		element.Point("backdrop", "backdrop_path").As(element.EntityArg).Of(BackdropType),
		element.Point("poster", "poster_path").As(element.EntityArg).Of(PosterType),
		element.List("authors", "created_by").Of(PersonType),
		element.List("episode_run_time", "episode_run_time"),
		element.List("genres", "genres").Of(GenreType),
		element.List("languages", "languages"),
		element.List("origin_countries", "origin_country"),
		element.List("networks", "networks").Of(NetworkType),
		element.Dict("seasons", "seasons", "season_number").Of(SeasonType).Pass(map[string]string{
			"id": "series_id",
		}),

		element.List("cast", "cast").Of(CastType).From(groupCredits).SortBy(element.OrderByKey),
		element.List("crew", "crew").Of(CrewType).From(groupCredits),

		element.List("backdrops", "backdrops").Of(BackdropType).From(groupImages).SortBy(element.OrderByLanguage),
		element.List("posters", "posters").Of(PosterType).From(groupImages).SortBy(element.OrderByLanguage),

		element.List("keywords", "results").Of(KeywordType).From(groupKeywords),

		element.Point("imdb_id", "imdb_id").From(groupExternalIDs),
		element.Point("freebase_id", "freebase_id").From(groupExternalIDs),
		element.Point("freebase_mid", "freebase_mid").From(groupExternalIDs),
		element.Point("tvdb_id", "tvdb_id").From(groupExternalIDs),
		element.Point("tvrage_id", "tvrage_id").From(groupExternalIDs),
	}
	SeriesType.Resolvers = map[element.Group]element.Resolver{
		element.Primary:  resolve("tv/%s", []string{"id"}, withLanguage),
		groupCredits:     resolve("tv/%s/credits", []string{"id"}, nil),
		groupImages:      resolve("tv/%s/images", []string{"id"}, withImageLanguage),
		groupExternalIDs: resolve("tv/%s/external_ids", []string{"id"}, nil),
		groupKeywords:    resolve("tv/%s/keywords", []string{"id"}, nil),
	}
	SeriesType.Describe = describeSeries
}

// resolve builds a resolver that fills format with the named identity
// arguments and adds params derived from the element's locale
func resolve(format string, args []string, params func(e *element.Element) request.Params) element.Resolver {
	return func(e *element.Element) (*request.Request, error) {
		values := make([]any, len(args))
		for i, name := range args {
			v := e.Arg(name)
			if v == nil {
				return nil, errors.Wrapf(ErrMissingArgument, "%s needs %s", e.Type().Name, name)
			}
			values[i] = request.FormatValue(v)
		}
		var p request.Params
		if params != nil {
			p = params(e)
		}
		return request.New(fmt.Sprintf(format, values...), p), nil
	}
}

func withLanguage(e *element.Element) request.Params {
	return request.Params{"language": nonEmpty(e.Locale().Language)}
}

// withImageLanguage restricts image lists to the locale language unless the
// locale falls through to other languages
func withImageLanguage(e *element.Element) request.Params {
	if e.Locale().Fallthrough {
		return nil
	}
	return withLanguage(e)
}

func withCountry(e *element.Element) request.Params {
	if e.Locale().Fallthrough {
		return nil
	}
	return request.Params{"country": nonEmpty(e.Locale().Country)}
}

// nonEmpty maps "" to nil so the parameter is dropped
func nonEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
