package resolve

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	discTrackRe = regexp.MustCompile(`^(\d+)-(\d+)$`)
	sideTrackRe = regexp.MustCompile(`^([A-Z])(\d+)$`)
)

// ResolvePosition derives (disc number, track number) from a raw source
// position token. siblings is the ordered list of position tokens on the
// same release and index the track's place in it, used for the fallback
// ordinal and for vinyl side-number continuation.
//
// Recognized forms, in priority order:
//
//	"1-3"      disc 1, track 3
//	"B2"       vinyl side notation; two sides per disc, B-side numbering
//	           continues after the A-side track count
//	anything   disc 1, track = 1-based index in siblings
func ResolvePosition(token string, siblings []string, index int) (int, int) {
	if m := discTrackRe.FindStringSubmatch(token); m != nil {
		disc, _ := strconv.Atoi(m[1])
		track, _ := strconv.Atoi(m[2])
		return disc, track
	}

	if m := sideTrackRe.FindStringSubmatch(token); m != nil {
		side := int(m[1][0]-'A') + 1
		disc := (side + 1) / 2
		track, _ := strconv.Atoi(m[2])
		if side%2 == 0 {
			// B side: offset by the preceding side's track count so
			// numbering continues instead of restarting at 1
			previousSide := string(rune('A' + side - 2))
			for _, sibling := range siblings {
				if strings.HasPrefix(sibling, previousSide) {
					track++
				}
			}
		}
		return disc, track
	}

	if index < 0 {
		index = 0
	}
	return 1, index + 1
}
