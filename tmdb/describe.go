package tmdb

import (
	"fmt"
	"strings"

	"github.com/s0up4200/tmdb3/element"
	"github.com/s0up4200/tmdb3/request"
)

func describeNamed(e *element.Element) string {
	return fmt.Sprintf("<%s '%s'>", e.Type().Name, e.PeekString("name"))
}

func describeImage(e *element.Element) string {
	return fmt.Sprintf("<%s '%s'>", e.Type().Name, strings.TrimLeft(e.PeekString("filename"), "/"))
}

func describeMovie(e *element.Element) string {
	title := e.PeekString("title")
	if title == "" {
		title = e.PeekString("originaltitle")
	}
	if title == "" {
		return fmt.Sprintf("<%s 'No Title'>", e.Type().Name)
	}
	if year := yearOf(e.PeekString("releasedate")); year != "" {
		return fmt.Sprintf("<%s '%s' (%s)>", e.Type().Name, title, year)
	}
	return fmt.Sprintf("<%s '%s'>", e.Type().Name, title)
}

func describeSeries(e *element.Element) string {
	name := e.PeekString("name")
	if year := yearOf(e.PeekString("first_air_date")); year != "" {
		return fmt.Sprintf("<Series '%s' (%s)>", name, year)
	}
	return fmt.Sprintf("<Series '%s'>", name)
}

func describeSeason(e *element.Element) string {
	return fmt.Sprintf("<Season %s of %s>", request.FormatValue(e.Arg("season_number")), request.FormatValue(e.Arg("series_id")))
}

func describeEpisode(e *element.Element) string {
	return fmt.Sprintf("<Episode S%02dE%02d '%s'>", intArg(e, "season_number"), intArg(e, "episode_number"), e.PeekString("name"))
}

func intArg(e *element.Element, name string) int {
	switch n := e.Arg(name).(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return 0
}

// yearOf returns the leading year of a YYYY-MM-DD string
func yearOf(date string) string {
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}
