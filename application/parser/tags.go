package parser

import (
	"strconv"
	"strings"

	"github.com/bbidwell85/Totality-sub002/domain/model"
)

// Alternate tag-key candidates per logical field. Muxers disagree on
// casing and naming; the first key present wins.
var (
	titleKeys        = []string{"title", "TITLE"}
	yearKeys         = []string{"date", "DATE", "year", "YEAR", "creation_time"}
	descriptionKeys  = []string{"description", "DESCRIPTION", "synopsis", "SYNOPSIS", "comment", "COMMENT"}
	showKeys         = []string{"show", "SHOW", "series", "SERIES", "show_name"}
	seasonKeys       = []string{"season_number", "SEASON_NUMBER", "season", "SEASON"}
	episodeKeys      = []string{"episode_sort", "EPISODE_SORT", "episode_id", "episode", "EPISODE"}
	episodeTitleKeys = []string{"episode_title", "EPISODE_TITLE"}
)

// extractMetadataTags pulls descriptive fields out of the container
// tags, best-effort. Returns nil when no candidate key yields a value.
func extractMetadataTags(tags map[string]string) *model.EmbeddedMetadataTags {
	if len(tags) == 0 {
		return nil
	}

	meta := &model.EmbeddedMetadataTags{
		Title:        firstTag(tags, titleKeys),
		Description:  firstTag(tags, descriptionKeys),
		ShowName:     firstTag(tags, showKeys),
		EpisodeTitle: firstTag(tags, episodeTitleKeys),
	}

	if year, ok := firstYear(tags); ok {
		meta.Year = &year
	}
	if season, ok := firstInt(tags, seasonKeys); ok {
		meta.Season = &season
	}
	if episode, ok := firstInt(tags, episodeKeys); ok {
		meta.Episode = &episode
	}

	if *meta == (model.EmbeddedMetadataTags{}) {
		return nil
	}
	return meta
}

func firstTag(tags map[string]string, keys []string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(tags[k]); v != "" {
			return v
		}
	}
	return ""
}

// firstYear scans the year candidate keys for a value whose first four
// characters form a plausible year ("2019-07-01..." yields 2019).
func firstYear(tags map[string]string) (int, bool) {
	for _, k := range yearKeys {
		v := strings.TrimSpace(tags[k])
		if len(v) < 4 {
			continue
		}
		year, err := strconv.Atoi(v[:4])
		if err != nil || year < 1000 {
			continue
		}
		return year, true
	}
	return 0, false
}

func firstInt(tags map[string]string, keys []string) (int, bool) {
	for _, k := range keys {
		v := strings.TrimSpace(tags[k])
		if v == "" {
			continue
		}
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n, true
		}
	}
	return 0, false
}
