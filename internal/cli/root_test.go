package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mazroni9/DasmAdminPanel/internal/domain"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "STORE_BACKEND", "BUYERS_FILE", "MONGO_URI", "SHUTDOWN_TIMEOUT", "DEFAULT_SELLER_ID"} {
		t.Setenv(key, "")
	}
	t.Setenv("LOG_LEVEL", "error")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "dasm-admin", cmd.Use)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, path := range [][]string{{"serve"}, {"migrate"}, {"buyers", "import"}, {"match"}} {
		t.Run(path[len(path)-1], func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestInvalidFormat(t *testing.T) {
	isolateEnv(t)
	_, err := execute(t, "match", "--listing", "testdata/camry.yaml", "--format", "xml")
	assert.ErrorContains(t, err, "invalid format")
}

func TestInvalidConfig(t *testing.T) {
	isolateEnv(t)
	t.Setenv("STORE_BACKEND", "redis")
	_, err := execute(t, "match", "--listing", "testdata/camry.yaml")
	assert.ErrorContains(t, err, "STORE_BACKEND")
}

func TestMatch_Text(t *testing.T) {
	isolateEnv(t)

	out, err := execute(t, "match", "--listing", "testdata/camry.yaml", "--buyers", "testdata/buyers.yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "Toyota Camry 2022: 2 qualified buyers")
	assert.Contains(t, out, "b-cars")
	assert.Contains(t, out, `Interested in category "Cars"`)
	assert.Contains(t, out, "b-fav")
	assert.NotContains(t, out, "b-watch")
}

func TestMatch_JSONWithDefaultDirectory(t *testing.T) {
	isolateEnv(t)

	out, err := execute(t, "match", "--listing", "testdata/camry.json", "--format", "json")
	require.NoError(t, err)

	var got struct {
		Listing domain.Listing `json:"listing"`
		Buyers  []struct {
			ID        string `json:"id"`
			MatchKind string `json:"matchKind"`
		} `json:"buyers"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 125000.0, got.Listing.Price)
	assert.Equal(t, "unknown-seller", got.Listing.SellerID)
	require.Len(t, got.Buyers, 1)
	assert.Equal(t, "buyer_001", got.Buyers[0].ID)
	assert.Equal(t, "category", got.Buyers[0].MatchKind)
}

func TestMatch_InvalidListing(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "match", "--listing", "testdata/incomplete.yaml", "--buyers", "testdata/buyers.yaml")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Missing["description"])

	_, err = execute(t, "match")
	assert.ErrorContains(t, err, "listing")
}

func TestBuyersImport_DryRun(t *testing.T) {
	isolateEnv(t)

	out, err := execute(t, "buyers", "import", "--dry-run", "testdata/buyers.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "3 buyers valid")

	_, err = execute(t, "buyers", "import", "--dry-run", "testdata/missing.yaml")
	assert.Error(t, err)
}
