package match

// Threshold is the acceptance ratio for applying a cross-provider merge.
// The best-scoring candidate merges when its ratio is >= Threshold.
const Threshold = 0.8

// Credit is one source-side artist credit entering a comparison
type Credit struct {
	Name string
}

// TrackInput is a source-side track entering an album comparison
type TrackInput struct {
	Title   string
	Credits []Credit
}

// AlbumInput is the source side of an album comparison
type AlbumInput struct {
	Title   string
	Credits []Credit
	Tracks  []TrackInput
}

// CatalogTrack is the catalog side of a track comparison
type CatalogTrack struct {
	Title       string
	ArtistNames []string
}

// CatalogAlbum is the catalog side of an album comparison
type CatalogAlbum struct {
	Title         string
	ArtistNames   []string
	IsCompilation bool
	Tracks        []CatalogTrack
}

// CreditRatio scores an ordered source credit list against a flat list of
// catalog artist names: every catalog name gets its best per-credit
// similarity, and those maxima are averaged. Asymmetric on purpose: source
// credits without a catalog counterpart are not penalized here. Returns 0.0
// for an empty catalog list.
func CreditRatio(credits []Credit, names []string) float64 {
	if len(names) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, name := range names {
		highest := 0.0
		for _, credit := range credits {
			if ratio := Ratio(credit.Name, name); ratio > highest {
				highest = ratio
			}
		}
		sum += highest
	}

	return sum / float64(len(names))
}

// TrackRatio scores one source track against one catalog track: an even
// blend of title similarity and credit-list ratio.
func TrackRatio(input TrackInput, track CatalogTrack) float64 {
	titleRatio := Ratio(input.Title, track.Title)
	creditRatio := CreditRatio(input.Credits, track.ArtistNames)
	return (titleRatio + creditRatio) / 2
}

// AlbumRatio computes the weighted match ratio between a source album and a
// catalog album:
//
//   - title similarity, always counted;
//   - credit-list ratio, counted unless the catalog album is a compilation;
//   - the average of per-position track ratios (tracks zipped by ordinal,
//     not matched by title), counted when at least one pair exists. A
//     source with fewer tracks than the catalog pads the missing pairs with
//     a perfect 1.0 so absence does not score below unknown.
//
// The result is the arithmetic mean of the counted components, in [0, 1].
func AlbumRatio(input AlbumInput, album CatalogAlbum) float64 {
	ratios := []float64{Ratio(input.Title, album.Title)}

	if !album.IsCompilation {
		ratios = append(ratios, CreditRatio(input.Credits, album.ArtistNames))
	}

	var trackRatios []float64
	for idx, track := range album.Tracks {
		if idx >= len(input.Tracks) {
			trackRatios = append(trackRatios, 1.0)
			continue
		}
		trackRatios = append(trackRatios, TrackRatio(input.Tracks[idx], track))
	}
	if len(trackRatios) > 0 {
		sum := 0.0
		for _, r := range trackRatios {
			sum += r
		}
		ratios = append(ratios, sum/float64(len(trackRatios)))
	}

	sum := 0.0
	for _, r := range ratios {
		sum += r
	}
	return sum / float64(len(ratios))
}
