package models

import "time"

// PlayRecord is one entry of an extended streaming history export (audio or video).
type PlayRecord struct {
	Timestamp     time.Time `json:"ts"`
	Platform      string    `json:"platform"`
	MsPlayed      int64     `json:"ms_played"`
	ConnCountry   string    `json:"conn_country"`
	TrackName     string    `json:"master_metadata_track_name"`
	ArtistName    string    `json:"master_metadata_album_artist_name"`
	AlbumName     string    `json:"master_metadata_album_album_name"`
	TrackURI      string    `json:"spotify_track_uri"`
	EpisodeName   string    `json:"episode_name"`
	ShowName      string    `json:"episode_show_name"`
	ReasonStart   string    `json:"reason_start"`
	ReasonEnd     string    `json:"reason_end"`
	Shuffle       bool      `json:"shuffle"`
	Skipped       bool      `json:"skipped"`
	Offline       bool      `json:"offline"`
	IncognitoMode bool      `json:"incognito_mode"`
}
