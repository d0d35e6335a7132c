package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mazroni9/DasmAdminPanel/internal/app"
	"github.com/mazroni9/DasmAdminPanel/internal/clock"
	"github.com/mazroni9/DasmAdminPanel/internal/domain"
	"github.com/mazroni9/DasmAdminPanel/internal/notify"
	"github.com/mazroni9/DasmAdminPanel/internal/storage/memory"
)

// NewMatchCommand creates the match command, a dry run of a broadcast.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	var listingPath, buyersPath string

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Show which buyers a listing would reach",
		Long: `Match a listing file against a buyer directory without creating offers.

The listing file is YAML or JSON with name, description, price, category
and condition. Buyers default to BUYERS_FILE, then the built-in directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadListing(listingPath)
			if err != nil {
				return err
			}
			if buyersPath == "" {
				buyersPath = rootOpts.Config.Store.BuyersFile
			}
			directory, err := loadDirectory(buyersPath)
			if err != nil {
				return err
			}

			svc := app.NewBroadcastService(
				memory.NewBuyerDirectory(directory),
				memory.NewOfferStore(),
				notify.NewRecorder(),
				clock.NewSystem(),
				app.WithDefaultSeller(rootOpts.Config.Offers.DefaultSellerID),
			)
			listing, matches, err := svc.Preview(cmd.Context(), in)
			if err != nil {
				return err
			}
			return writeMatches(cmd.OutOrStdout(), rootOpts.Format, listing, matches)
		},
	}

	cmd.Flags().StringVarP(&listingPath, "listing", "l", "", "listing file (YAML or JSON)")
	cmd.Flags().StringVar(&buyersPath, "buyers", "", "buyer directory file (YAML)")
	_ = cmd.MarkFlagRequired("listing")
	return cmd
}

type listingFile struct {
	SellerID    string `yaml:"sellerId"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Desc        string `yaml:"desc"`
	Price       string `yaml:"price"`
	Category    string `yaml:"category"`
	Condition   string `yaml:"condition"`
}

func loadListing(path string) (domain.ListingInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ListingInput{}, fmt.Errorf("read listing file: %w", err)
	}
	var f listingFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.ListingInput{}, fmt.Errorf("parse listing file: %w", err)
	}
	desc := f.Description
	if desc == "" {
		desc = f.Desc
	}
	return domain.ListingInput{
		SellerID:    f.SellerID,
		Name:        f.Name,
		Description: desc,
		Price:       f.Price,
		Category:    f.Category,
		Condition:   f.Condition,
	}, nil
}

type matchOutput struct {
	Listing domain.Listing `json:"listing"`
	Buyers  []matchedBuyer `json:"buyers"`
}

type matchedBuyer struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	MatchKind   domain.MatchKind   `json:"matchKind"`
	MatchReason string             `json:"matchReason"`
	Kinds       []domain.MatchKind `json:"kinds"`
}

func writeMatches(w io.Writer, format string, listing domain.Listing, matches []domain.Match) error {
	out := matchOutput{Listing: listing, Buyers: make([]matchedBuyer, 0, len(matches))}
	for _, m := range matches {
		out.Buyers = append(out.Buyers, matchedBuyer{
			ID:          m.Buyer.ID,
			Name:        m.Buyer.Name,
			MatchKind:   m.Kind,
			MatchReason: m.Reason,
			Kinds:       m.Kinds,
		})
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "%s: %d qualified buyers\n", listing.Name, len(out.Buyers))
	if len(out.Buyers) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tREASON")
	for _, b := range out.Buyers {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.ID, b.Name, b.MatchReason)
	}
	return tw.Flush()
}
