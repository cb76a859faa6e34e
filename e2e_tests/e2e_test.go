// End-to-end flow against a running stack (api + postgres seeded with the
// DEV data). Skipped unless E2E_BASE_URL is set, e.g.
//
//	E2E_BASE_URL=http://localhost:8080 go test ./e2e_tests/
package e2etests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"
)

const (
	timeout   = 5 * time.Second
	waitReady = 20 * time.Second
)

var httpClient = &http.Client{Timeout: timeout}

func baseURL(t *testing.T) string {
	t.Helper()

	u := os.Getenv("E2E_BASE_URL")
	if u == "" {
		t.Skip("E2E_BASE_URL not set")
	}

	return strings.TrimRight(u, "/")
}

func TestE2E_WagerLifecycle(t *testing.T) {
	base := baseURL(t)
	waitUntilReady(t, base, 1)

	start := getBankrollCents(t, base, 1)

	var wagerID string

	t.Run("place_wager_debits_stake", func(t *testing.T) {
		code, body := placeWager(t, base, 1, map[string]any{
			"propId": "prop-lbj-pts",
			"stake":  "10.00",
			"odds":   1.91,
		})
		if code != http.StatusCreated {
			t.Fatalf("place: want 201, got %d (%s)", code, body)
		}

		var placed struct {
			ID              string `json:"id"`
			Status          string `json:"status"`
			PotentialReturn string `json:"potentialReturn"`
		}
		if err := json.Unmarshal([]byte(body), &placed); err != nil {
			t.Fatalf("decode placed wager: %v", err)
		}
		if placed.Status != "pending" {
			t.Fatalf("want pending, got %s", placed.Status)
		}
		if placed.PotentialReturn != "19.10" {
			t.Fatalf("potential return: want 19.10, got %s", placed.PotentialReturn)
		}
		wagerID = placed.ID

		got := getBankrollCents(t, base, 1)
		if got != start-1_000 {
			t.Fatalf("bankroll after place: want %d, got %d", start-1_000, got)
		}
	})

	t.Run("wager_listed_for_user", func(t *testing.T) {
		code, body := get(t, base+"/user/1/wagers")
		if code != http.StatusOK {
			t.Fatalf("list: want 200, got %d", code)
		}

		var payload struct {
			Wagers []struct {
				ID string `json:"id"`
			} `json:"wagers"`
		}
		if err := json.Unmarshal([]byte(body), &payload); err != nil {
			t.Fatalf("decode list: %v", err)
		}

		found := false
		for _, w := range payload.Wagers {
			if w.ID == wagerID {
				found = true
			}
		}
		if !found {
			t.Fatalf("placed wager %s not in list (%s)", wagerID, body)
		}
	})

	t.Run("settlement_run_pays_out", func(t *testing.T) {
		// The seeded game started hours ago with LeBron at 31 points,
		// over 25.5: the scan should presume it final and settle the
		// wager as won.
		code, body := post(t, base+"/admin/settlements/run?sport=nba", nil)
		if code != http.StatusOK {
			t.Fatalf("settlement run: want 200, got %d (%s)", code, body)
		}

		var report struct {
			WagersSettled int      `json:"wagersSettled"`
			Errors        []string `json:"errors"`
		}
		if err := json.Unmarshal([]byte(body), &report); err != nil {
			t.Fatalf("decode report: %v", err)
		}
		if report.WagersSettled < 1 {
			t.Fatalf("expected at least one settled wager: %s", body)
		}

		// 10.00 staked, 19.10 back: net +9.10 against the start.
		got := getBankrollCents(t, base, 1)
		if got != start+910 {
			t.Fatalf("bankroll after win: want %d, got %d", start+910, got)
		}
	})

	t.Run("second_run_is_idempotent", func(t *testing.T) {
		code, _ := post(t, base+"/admin/settlements/run?sport=nba", nil)
		if code != http.StatusOK {
			t.Fatalf("second run: want 200, got %d", code)
		}

		got := getBankrollCents(t, base, 1)
		if got != start+910 {
			t.Fatalf("second run moved money: want %d, got %d", start+910, got)
		}
	})

	t.Run("snapshot_reflects_record", func(t *testing.T) {
		code, body := post(t, base+"/user/1/snapshots", nil)
		if code != http.StatusCreated {
			t.Fatalf("snapshot: want 201, got %d (%s)", code, body)
		}

		var snap struct {
			TotalWagers int     `json:"totalWagers"`
			Wins        int     `json:"wins"`
			WinRate     float64 `json:"winRate"`
		}
		if err := json.Unmarshal([]byte(body), &snap); err != nil {
			t.Fatalf("decode snapshot: %v", err)
		}
		if snap.TotalWagers < 1 || snap.Wins < 1 {
			t.Fatalf("snapshot misses the settled wager: %s", body)
		}
	})
}

func TestE2E_Rejections(t *testing.T) {
	base := baseURL(t)
	waitUntilReady(t, base, 3)

	t.Run("insufficient_funds", func(t *testing.T) {
		// User 3 is seeded broke.
		code, body := placeWager(t, base, 3, map[string]any{
			"stake": "1.00",
			"odds":  1.91,
		})
		if code != http.StatusConflict {
			t.Fatalf("want 409, got %d (%s)", code, body)
		}

		if got := getBankrollCents(t, base, 3); got != 0 {
			t.Fatalf("bankroll must stay 0, got %d", got)
		}
	})

	t.Run("invalid_amount_precision", func(t *testing.T) {
		code, _ := placeWager(t, base, 1, map[string]any{
			"stake": "1.234",
			"odds":  1.91,
		})
		if code != http.StatusBadRequest {
			t.Fatalf("want 400, got %d", code)
		}
	})

	t.Run("unknown_prop", func(t *testing.T) {
		code, _ := placeWager(t, base, 1, map[string]any{
			"propId": "no-such-prop",
			"stake":  "1.00",
			"odds":   1.91,
		})
		if code != http.StatusNotFound {
			t.Fatalf("want 404, got %d", code)
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		code, _ := get(t, base+"/user/999999/bankroll")
		if code != http.StatusNotFound {
			t.Fatalf("want 404, got %d", code)
		}
	})
}

/* -------------------- helpers -------------------- */

func getBankrollCents(t *testing.T, base string, userID uint64) int64 {
	t.Helper()

	code, body := get(t, fmt.Sprintf("%s/user/%d/bankroll", base, userID))
	if code != http.StatusOK {
		t.Fatalf("get bankroll: want 200, got %d (%s)", code, body)
	}

	var payload struct {
		UserID   uint64 `json:"userId"`
		Bankroll string `json:"bankroll"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("decode bankroll: %v", err)
	}
	if payload.UserID != userID {
		t.Fatalf("userId mismatch: want %d, got %d", userID, payload.UserID)
	}

	cents, err := parseMoney(payload.Bankroll)
	if err != nil {
		t.Fatalf("invalid bankroll format %q: %v", payload.Bankroll, err)
	}

	return cents
}

func placeWager(t *testing.T, base string, userID uint64, body map[string]any) (int, string) {
	t.Helper()

	return post(t, fmt.Sprintf("%s/user/%d/wagers", base, userID), body)
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()

	resp, err := httpClient.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)

	return resp.StatusCode, string(b)
}

func post(t *testing.T, url string, body map[string]any) (int, string) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("marshal: %v", err)
		}
	}

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)

	return resp.StatusCode, string(b)
}

// waitUntilReady polls the bankroll endpoint until the service answers.
func waitUntilReady(t *testing.T, base string, userID uint64) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), waitReady)
	defer cancel()

	u := fmt.Sprintf("%s/user/%d/bankroll", base, userID)

	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("service not ready at %s within %s", u, waitReady)
		case <-tick.C:
			resp, err := httpClient.Get(u)
			if err != nil {
				continue
			}
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNotFound {
				return
			}
		}
	}
}

func parseMoney(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	parts := strings.Split(s, ".")
	if len(parts) == 1 {
		parts = append(parts, "00")
	}
	if len(parts) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("need 2 decimals")
	}
	intPart, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, err
	}
	fracPart, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, err
	}
	cents := intPart*100 + fracPart
	if neg {
		cents = -cents
	}

	return cents, nil
}
