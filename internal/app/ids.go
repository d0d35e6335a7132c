package app

import "github.com/google/uuid"

// offerNamespace seeds name-based offer ids.
var offerNamespace = uuid.MustParse("6f1c2d8e-5b7a-4c1e-9a53-2f0d8c4b7e61")

func newListingID() string {
	return uuid.NewString()
}

// offerID is stable for a listing and buyer pair.
func offerID(listingID, buyerID string) string {
	return uuid.NewSHA1(offerNamespace, []byte(listingID+"/"+buyerID)).String()
}
