package musicbrainz

import (
	"context"
	"strings"

	"github.com/franz/record-collection/internal/catalog"
	"github.com/franz/record-collection/internal/util"
)

// Genre names that must not go through plain capitalization
var genreSpecialCases = []string{
	"AOR",
	"ASMR",
	"EAI",
	"EBM",
	"EDM",
	"FM Synthesis",
	"Hi-NRG",
	"IDM",
	"MPB",
	"OPM",
	"RKT",
	"Trap EDM",
	"UK Drill",
	"UK Funky",
	"UK Garage",
	"UK Hardcore",
	"UK Jackin",
	"UK Street Soul",
	"UK82",
}

// CanonicalGenreName capitalizes a raw genre name, honouring the
// special case list
func CanonicalGenreName(name string) string {
	for _, special := range genreSpecialCases {
		if strings.EqualFold(name, special) {
			return special
		}
	}
	return util.Capitalize(name)
}

// ImportGenres fetches the genre list and upserts each name into the
// catalog. Existing genres are renamed in place when the canonical
// spelling differs; case-insensitive duplicates are never created.
func ImportGenres(ctx context.Context, client *Client, cat *catalog.Catalog) (int, error) {
	names, err := client.GenreList(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	err = cat.Transaction(func(tx *catalog.Catalog) error {
		for _, name := range names {
			if err := tx.UpsertGenre(CanonicalGenreName(name)); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	util.InfoLog("Imported %d genres", count)
	return count, nil
}
