package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTelegramNotify(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewTelegram(srv.URL, "test-token", "-100123")
	err := n.Notify(context.Background(), OrderSummary{
		OrderID: "ord-1",
		Total:   decimal.NewFromInt(110000),
		Phone:   "+998901234567",
		Address: "Chilonzor 5",
	})
	if err != nil {
		t.Fatal(err)
	}

	if gotPath != "/bottest-token/sendMessage" {
		t.Fatalf("path %s", gotPath)
	}
	if gotBody["chat_id"] != "-100123" {
		t.Fatalf("chat_id %v", gotBody["chat_id"])
	}
	text, _ := gotBody["text"].(string)
	for _, want := range []string{"ord-1", "110000", "+998901234567", "Chilonzor 5"} {
		if !strings.Contains(text, want) {
			t.Fatalf("text missing %q: %s", want, text)
		}
	}
}

func TestTelegramNotifyFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewTelegram(srv.URL, "t", "c")
	if err := n.Notify(context.Background(), OrderSummary{OrderID: "x"}); err == nil {
		t.Fatal("want error on non-200 response")
	}
}
