// Package releaseinfo extracts season/episode/resolution/group hints from a
// release filename, for use purely as a diagnostic "reasoning factor"
// surfaced in a match report. It never affects a match's confidence score
// or accept/reject decision (SPEC_FULL.md §C.1).
package releaseinfo

import (
	"strconv"

	ptn "github.com/razsteinmetz/go-ptn"
)

// Info is a best-effort parse of a release filename. Any field may be the
// zero value if the filename didn't carry that piece of information.
type Info struct {
	Title        string
	Year         int
	Season       int
	Episode      int
	Resolution   string
	Quality      string
	ReleaseGroup string
}

// Parse extracts release metadata from a filename. It never errors: an
// unparseable name yields a zero-value Info.
func Parse(filename string) Info {
	torrent, err := ptn.Parse(filename)
	if err != nil {
		return Info{}
	}
	return Info{
		Title:        torrent.Title,
		Year:         torrent.Year,
		Season:       torrent.Season,
		Episode:      torrent.Episode,
		Resolution:   torrent.Resolution,
		Quality:      torrent.Quality,
		ReleaseGroup: torrent.Group,
	}
}

// ReasoningFactor renders Info as a short human-readable string suitable
// for inclusion alongside a match's other diagnostic factors, or "" if
// nothing useful was extracted.
func (i Info) ReasoningFactor() string {
	if i.Title == "" && i.Season == 0 && i.Episode == 0 {
		return ""
	}
	factor := "release-info: title=" + i.Title
	if i.Season > 0 || i.Episode > 0 {
		factor += seasonEpisodeSuffix(i.Season, i.Episode)
	}
	if i.Resolution != "" {
		factor += " resolution=" + i.Resolution
	}
	if i.ReleaseGroup != "" {
		factor += " group=" + i.ReleaseGroup
	}
	return factor
}

func seasonEpisodeSuffix(season, episode int) string {
	return " season=" + strconv.Itoa(season) + " episode=" + strconv.Itoa(episode)
}
