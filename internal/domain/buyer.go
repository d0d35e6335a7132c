package domain

// BuyerProfile is read-only reference data describing what a buyer is interested in.
type BuyerProfile struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	Email            string   `json:"email" yaml:"email"`
	Phone            string   `json:"phone,omitempty" yaml:"phone"`
	Interests        []string `json:"interests" yaml:"interests"`
	Favorites        []string `json:"favorites" yaml:"favorites"`
	PreviousRequests []string `json:"previousRequests" yaml:"previousRequests"`
}

type MatchKind string

// Match kinds in precedence order.
const (
	MatchCategory       MatchKind = "category"
	MatchFavorite       MatchKind = "favorite"
	MatchRequestHistory MatchKind = "request_history"
)

// Match is a buyer selected for a listing, with the winning reason first.
type Match struct {
	Buyer   BuyerProfile
	Kind    MatchKind
	Keyword string
	Reason  string
	// Kinds holds every predicate that held, in precedence order.
	Kinds []MatchKind
}
