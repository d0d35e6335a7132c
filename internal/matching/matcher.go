// Package matching selects the buyers a listing should be offered to.
package matching

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/mazroni9/DasmAdminPanel/internal/domain"
)

// Match returns the buyers qualified for the listing in directory order.
//
// A buyer qualifies when at least one of these holds, checked in precedence order:
//  1. the listing category is one of the buyer's interests
//  2. the listing name contains a favorite, or a favorite contains the listing name
//  3. the listing name contains one of the buyer's previous requests
//
// The reported reason is the first predicate that holds. Categories must equal an
// interest exactly; favorite and request comparisons ignore case and Unicode
// normalization differences. Match does not validate the listing.
func Match(listing domain.Listing, buyers []domain.BuyerProfile) []domain.Match {
	f := newFolder()
	category := strings.TrimSpace(listing.Category)
	name := f.fold(listing.Name)

	var out []domain.Match
	for _, buyer := range buyers {
		m, ok := matchBuyer(f, category, name, buyer)
		if !ok {
			continue
		}
		out = append(out, m)
	}
	return out
}

func matchBuyer(f *folder, category, name string, buyer domain.BuyerProfile) (domain.Match, bool) {
	m := domain.Match{Buyer: buyer}

	if kw, ok := interestHit(buyer.Interests, category); ok {
		record(&m, domain.MatchCategory, kw)
	}
	if kw, ok := firstHit(f, buyer.Favorites, func(k string) bool {
		return name != "" && (strings.Contains(name, k) || strings.Contains(k, name))
	}); ok {
		record(&m, domain.MatchFavorite, kw)
	}
	if kw, ok := firstHit(f, buyer.PreviousRequests, func(k string) bool { return strings.Contains(name, k) }); ok {
		record(&m, domain.MatchRequestHistory, kw)
	}

	if len(m.Kinds) == 0 {
		return domain.Match{}, false
	}
	return m, true
}

// record appends a true predicate; the first one recorded wins the reason.
func record(m *domain.Match, kind domain.MatchKind, keyword string) {
	if len(m.Kinds) == 0 {
		m.Kind = kind
		m.Keyword = keyword
		m.Reason = Reason(kind, keyword)
	}
	m.Kinds = append(m.Kinds, kind)
}

// interestHit reports the interest equal to the listing category. Unlike the
// keyword checks, categories compare exactly.
func interestHit(interests []string, category string) (string, bool) {
	if category == "" {
		return "", false
	}
	for _, interest := range interests {
		if strings.TrimSpace(interest) == category {
			return category, true
		}
	}
	return "", false
}

// firstHit returns the first non-blank keyword accepted by pred, compared in folded form.
func firstHit(f *folder, keywords []string, pred func(string) bool) (string, bool) {
	for _, kw := range keywords {
		folded := f.fold(kw)
		if folded == "" {
			continue
		}
		if pred(folded) {
			return strings.TrimSpace(kw), true
		}
	}
	return "", false
}

// Reason renders the human-readable explanation for a match kind.
func Reason(kind domain.MatchKind, keyword string) string {
	switch kind {
	case domain.MatchCategory:
		return fmt.Sprintf("Interested in category %q", keyword)
	case domain.MatchFavorite:
		return fmt.Sprintf("Has %q in favorites", keyword)
	case domain.MatchRequestHistory:
		return fmt.Sprintf("Previously requested %q", keyword)
	default:
		return ""
	}
}

type folder struct {
	caser cases.Caser
}

// newFolder returns a folder for a single Match call; casers are not safe for
// concurrent use.
func newFolder() *folder {
	return &folder{caser: cases.Fold()}
}

func (f *folder) fold(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return f.caser.String(norm.NFC.String(s))
}
