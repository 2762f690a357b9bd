// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"errors"
	"fmt"
	"io"

	"github.com/sfb1451/pubparse/pkg/types"
)

// Default score-ratio thresholds for disambiguation.
const (
	DefaultCloseThreshold  = 0.75
	DefaultAlmostThreshold = 0.90
)

// ErrNoCandidates is returned when disambiguation is asked to pick from an
// empty candidate list. It is explicit so "search found nothing" stays
// distinguishable from "search not attempted".
var ErrNoCandidates = errors.New("no candidates to pick from")

// DisambiguationOptions tunes the score-ratio thresholds.
type DisambiguationOptions struct {
	// Close is the ratio above which a top-ranked peer-review record is
	// discarded as a false positive (default 0.75).
	Close float64

	// Almost is the ratio at or above which a top-ranked preprint yields
	// to a journal article ranked second (default 0.90).
	Almost float64
}

func (o DisambiguationOptions) withDefaults() DisambiguationOptions {
	if o.Close <= 0 {
		o.Close = DefaultCloseThreshold
	}
	if o.Almost <= 0 {
		o.Almost = DefaultAlmostThreshold
	}
	return o
}

// PickBest selects the best record from a relevance-ordered candidate
// list. Two failure modes of fuzzy bibliographic search are corrected:
//
//   - A peer-review record ranked first with a close runner-up is a
//     reviewer's response to the work actually wanted; it is skipped and
//     the remaining list is re-examined, so a chain of such records is
//     skipped one by one.
//   - A preprint ranked barely above its published journal version loses
//     to that published version.
//
// Near-miss decisions write a diagnostic to log; the diagnostics carry no
// control-flow meaning. An empty list returns ErrNoCandidates.
func PickBest(candidates []types.CSLItem, opts DisambiguationOptions, log io.Writer) (types.CSLItem, error) {
	if len(candidates) == 0 {
		return types.CSLItem{}, ErrNoCandidates
	}
	opts = opts.withDefaults()

	i := 0
	for len(candidates)-i >= 2 {
		top, second := candidates[i], candidates[i+1]
		if top.Score <= 0 {
			break
		}
		similarity := second.Score / top.Score

		if similarity > opts.Close && top.Type == "peer-review" {
			fmt.Fprintf(log, "disambiguation: skipping peer-review %q (similarity %.2f)\n", top.Title, similarity)
			i++
			continue
		}
		if similarity >= opts.Almost && top.Subtype == "preprint" && second.Type == "journal-article" {
			fmt.Fprintf(log, "disambiguation: preferring published version %q over preprint (similarity %.2f)\n", second.Title, similarity)
			return second, nil
		}
		return top, nil
	}
	return candidates[i], nil
}
