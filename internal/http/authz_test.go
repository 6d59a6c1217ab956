package http_test

import (
	"net/http"
	"testing"
)

func TestStaffRoutesRequireLogin(t *testing.T) {
	app, _ := newTestApp(t)

	cases := []struct {
		method, target string
	}{
		{"GET", "/api/v1/courier/orders"},
		{"POST", "/api/v1/courier/orders/some-id/accept"},
		{"GET", "/api/v1/admin/orders"},
		{"GET", "/api/v1/admin/couriers"},
	}
	for _, tc := range cases {
		resp, err := app.Test(jsonReq(tc.method, tc.target, "sid-anon", nil), -1)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("%s %s: status %d, want 403", tc.method, tc.target, resp.StatusCode)
		}
	}
}

func TestCourierCannotUseAdminRoutes(t *testing.T) {
	app, _ := newTestApp(t)
	sid := "sid-courier-guard"
	login(t, app, sid, "aziz")

	resp, err := app.Test(jsonReq("GET", "/api/v1/admin/orders", sid, nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status %d, want 403", resp.StatusCode)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	app, _ := newTestApp(t)

	req := jsonReq("POST", "/api/v1/staff/login", "sid-bad", map[string]string{
		"login": "aziz", "password": "wrong",
	})
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", resp.StatusCode)
	}
	var body struct {
		Code string `json:"code"`
	}
	decode(t, resp, &body)
	if body.Code != "bad_credentials" {
		t.Fatalf("code %q", body.Code)
	}
}

func TestShopperCannotReadForeignOrder(t *testing.T) {
	app, _ := newTestApp(t)

	// shopper A places an order
	resp, err := app.Test(jsonReq("POST", "/api/v1/cart", "sid-a", map[string]string{"productId": "milk-1l"}), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cart add: status %d", resp.StatusCode)
	}
	req := jsonReq("POST", "/api/v1/orders", "sid-a", map[string]any{
		"address": "Yunusobod 12",
		"phone":   "+998935551122",
	})
	req.Header.Set("X-User-Id", "111")
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	var placed struct {
		OrderID string `json:"orderId"`
	}
	decode(t, resp, &placed)

	// shopper B asks for it and gets a 404, not a 403 leak
	req = jsonReq("GET", "/api/v1/orders/"+placed.OrderID, "sid-b", nil)
	req.Header.Set("X-User-Id", "222")
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d, want 404", resp.StatusCode)
	}
}
