package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/cinelog/telegram-movie-ingest/internal/parser"
)

// Movie is one catalog entry derived from a single channel post. All
// attribute fields are optional; nil means the source post did not carry
// the label, and the upsert leaves any previously stored value in place.
// TGMessageID is the conflict key, so re-processing the same post
// supersedes the stored row instead of duplicating it.
type Movie struct {
	Title       *string    `db:"title"`
	Link        *string    `db:"link"`
	Synopsis    *string    `db:"synopsis"`
	Director    *string    `db:"director"`
	Product     *string    `db:"product"`
	Stars       *string    `db:"stars"`
	IMDB        *string    `db:"imdb"`
	ReleaseInfo *string    `db:"release_info"`
	Genre       *string    `db:"genre"`
	CoverURL    *string    `db:"cover_url"`
	TGMessageID int64      `db:"tg_message_id"`
	TGDate      time.Time  `db:"tg_date"`
	UserID      *uuid.UUID `db:"user_id"`
}

// MovieFromFields assembles a Movie from parsed post fields plus the
// source message id and timestamp. The timestamp is normalized to UTC.
func MovieFromFields(fields map[string]string, messageID int64, date time.Time) *Movie {
	m := &Movie{
		TGMessageID: messageID,
		TGDate:      date.UTC(),
	}

	setField(&m.Title, fields, parser.FieldTitle)
	setField(&m.Link, fields, parser.FieldLink)
	setField(&m.Synopsis, fields, parser.FieldSynopsis)
	setField(&m.Director, fields, parser.FieldDirector)
	setField(&m.Product, fields, parser.FieldProduct)
	setField(&m.Stars, fields, parser.FieldStars)
	setField(&m.IMDB, fields, parser.FieldIMDB)
	setField(&m.ReleaseInfo, fields, parser.FieldReleaseInfo)
	setField(&m.Genre, fields, parser.FieldGenre)

	return m
}

// SetOwner attributes the row to the given principal, but only when no
// owner is set already.
func (m *Movie) SetOwner(id uuid.UUID) {
	if m.UserID == nil {
		m.UserID = &id
	}
}

// SetCoverURL records the public URL of the uploaded cover image.
func (m *Movie) SetCoverURL(url string) {
	m.CoverURL = &url
}

// ResolvedTitle returns the title for logging, or an empty string when
// the record has none.
func (m *Movie) ResolvedTitle() string {
	if m.Title == nil {
		return ""
	}
	return *m.Title
}

func setField(dst **string, fields map[string]string, key string) {
	if value, ok := fields[key]; ok && value != "" {
		*dst = &value
	}
}
