package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mazroni9/DasmAdminPanel/internal/app"
	"github.com/mazroni9/DasmAdminPanel/internal/clock"
	"github.com/mazroni9/DasmAdminPanel/internal/domain"
	"github.com/mazroni9/DasmAdminPanel/internal/notify"
	"github.com/mazroni9/DasmAdminPanel/internal/storage/postgres"
	"github.com/mazroni9/DasmAdminPanel/internal/testutil"
)

func TestOffersIntegration_Postgres(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	testutil.InsertBuyer(t, ctx, pool, domain.BuyerProfile{ID: "b-cars", Name: "Khalid", Interests: []string{"Cars"}})
	testutil.InsertBuyer(t, ctx, pool, domain.BuyerProfile{ID: "b-fav", Name: "Noura", Favorites: []string{"Camry"}})

	directory := postgres.NewBuyerRepository(pool)
	offers := postgres.NewOfferRepository(pool)
	actions := postgres.NewActionLog(pool)
	clk := clock.NewStepping(time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC), time.Second)

	router := NewRouter(Services{
		Broadcaster: app.NewBroadcastService(directory, offers, notify.NewRecorder(), clk),
		Offers:      app.NewOfferService(offers, actions, notify.NewRecorder(), clk),
		Buyers:      directory,
	}, nil, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/offers/broadcast",
		strings.NewReader(`{"name":"Toyota Camry 2022","description":"clean","price":85000,"category":"Cars","condition":"used"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("broadcast: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/offers?buyerId=b-fav", nil))
	var list listOffersResponse
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Offers) != 1 || list.Offers[0].MatchKind != string(domain.MatchFavorite) {
		t.Fatalf("unexpected offers: %+v", list.Offers)
	}
	offerID := list.Offers[0].ID

	const workers = 8
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		codes = map[int]int{}
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/offers/"+offerID+"/accept", nil))
			mu.Lock()
			codes[rec.Code]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	if codes[http.StatusOK] != 1 || codes[http.StatusBadRequest] != workers-1 {
		t.Fatalf("expected one 200 and %d 400s, got %v", workers-1, codes)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/offers/"+offerID+"/history", nil))
	var history historyResponse
	if err := json.NewDecoder(rec.Body).Decode(&history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history.History) != 1 || history.History[0].NewStatus != "accepted" {
		t.Fatalf("unexpected history: %+v", history.History)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/offers/offer-404/accept", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
