package handlers

import (
	"net/http"
	"testing"

	"sosgog-storefront/models"
)

func TestGetOrderByNumber(t *testing.T) {
	db := freshDB()
	order := seedOrder(db, "ayesha@example.com", 3890, models.OrderStatusPending)
	router := setupOrderRouter(db)

	w := serve(router, jsonRequest("GET", "/api/orders/"+order.OrderNumber+"?email=Ayesha@Example.com", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["order_number"] != order.OrderNumber {
		t.Errorf("expected %s, got %v", order.OrderNumber, resp["order_number"])
	}
	if items := resp["items"].([]interface{}); len(items) != 1 {
		t.Errorf("expected 1 item, got %d", len(items))
	}
}

func TestGetOrderByNumberRequiresMatchingEmail(t *testing.T) {
	db := freshDB()
	order := seedOrder(db, "ayesha@example.com", 3890, models.OrderStatusPending)
	router := setupOrderRouter(db)

	w := serve(router, jsonRequest("GET", "/api/orders/"+order.OrderNumber, nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without email, got %d", w.Code)
	}

	w = serve(router, jsonRequest("GET", "/api/orders/"+order.OrderNumber+"?email=someone@example.com", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for wrong email, got %d", w.Code)
	}

	w = serve(router, jsonRequest("GET", "/api/orders/SOS000?email=ayesha@example.com", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown number, got %d", w.Code)
	}
}

func TestListOrders(t *testing.T) {
	db := freshDB()
	_, token := seedAdmin(db, "admin@test.com", "password123")
	seedOrder(db, "a@example.com", 100, models.OrderStatusPending)
	seedOrder(db, "b@example.com", 200, models.OrderStatusShipped)
	seedOrder(db, "c@example.com", 300, models.OrderStatusPending)
	router := setupOrderRouter(db)

	w := serve(router, authRequest("GET", "/api/admin/orders", nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp["total"].(float64) != 3 {
		t.Errorf("expected 3 orders, got %v", resp["total"])
	}

	w = serve(router, authRequest("GET", "/api/admin/orders?status=pending", nil, token))
	if parseResponse(w)["total"].(float64) != 2 {
		t.Errorf("expected 2 pending orders, got %v", parseResponse(w)["total"])
	}

	w = serve(router, authRequest("GET", "/api/admin/orders?search=b@example", nil, token))
	if parseResponse(w)["total"].(float64) != 1 {
		t.Errorf("expected 1 match, got %v", parseResponse(w)["total"])
	}

	w = serve(router, authRequest("GET", "/api/admin/orders?limit=2&page=2", nil, token))
	resp = parseResponse(w)
	if len(resp["orders"].([]interface{})) != 1 || resp["pages"].(float64) != 2 {
		t.Errorf("unexpected page %v", resp)
	}
}

func TestListOrdersRequiresAdmin(t *testing.T) {
	db := freshDB()
	router := setupOrderRouter(db)

	w := serve(router, jsonRequest("GET", "/api/admin/orders", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestGetOrder(t *testing.T) {
	db := freshDB()
	_, token := seedAdmin(db, "admin@test.com", "password123")
	order := seedOrder(db, "a@example.com", 100, models.OrderStatusPending)
	router := setupOrderRouter(db)

	w := serve(router, authRequest("GET", "/api/admin/orders/"+order.ID.String(), nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = serve(router, authRequest("GET", "/api/admin/orders/not-a-uuid", nil, token))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	db := freshDB()
	_, token := seedAdmin(db, "admin@test.com", "password123")
	order := seedOrder(db, "a@example.com", 100, models.OrderStatusPending)
	router := setupOrderRouter(db)
	path := "/api/admin/orders/" + order.ID.String() + "/status"

	w := serve(router, authRequest("PUT", path, map[string]string{"status": "confirmed"}, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if parseResponse(w)["status"] != "confirmed" {
		t.Errorf("expected confirmed, got %v", parseResponse(w)["status"])
	}

	w = serve(router, authRequest("PUT", path, map[string]string{"status": "delivered"}, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for skipped transition, got %d", w.Code)
	}
	if parseResponse(w)["error"] != "Invalid status transition from 'confirmed' to 'delivered'" {
		t.Errorf("unexpected error %v", parseResponse(w)["error"])
	}

	w = serve(router, authRequest("PUT", path, map[string]string{"status": "cancelled"}, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = serve(router, authRequest("PUT", path, map[string]string{"status": "pending"}, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 from cancelled, got %d", w.Code)
	}
}

func TestUpdateOrderStatusNotFound(t *testing.T) {
	db := freshDB()
	_, token := seedAdmin(db, "admin@test.com", "password123")
	router := setupOrderRouter(db)

	w := serve(router, authRequest("PUT", "/api/admin/orders/00000000-0000-0000-0000-000000000001/status",
		map[string]string{"status": "confirmed"}, token))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetOrderTransitions(t *testing.T) {
	db := freshDB()
	_, token := seedAdmin(db, "admin@test.com", "password123")
	router := setupOrderRouter(db)

	w := serve(router, authRequest("GET", "/api/admin/orders/transitions", nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	pending := resp["pending"].([]interface{})
	if len(pending) != 2 {
		t.Errorf("expected 2 transitions from pending, got %v", pending)
	}
}

func TestAdminDashboard(t *testing.T) {
	db := freshDB()
	seedCatalog(db)
	_, token := seedAdmin(db, "admin@test.com", "password123")
	seedOrder(db, "a@example.com", 100.25, models.OrderStatusPending)
	seedOrder(db, "b@example.com", 200.50, models.OrderStatusDelivered)
	seedOrder(db, "c@example.com", 999, models.OrderStatusCancelled)
	db.Create(&models.DesignerApplication{
		FullName: "Ayesha Khan", BusinessName: "Loom", Email: "a@loom.pk",
		Phone: "1", Address: "x", Country: "Pakistan",
	})
	router := setupOrderRouter(db)

	w := serve(router, authRequest("GET", "/api/admin/dashboard", nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)

	checks := map[string]float64{
		"total_products":       2,
		"active_products":      2,
		"total_categories":     3,
		"total_orders":         3,
		"total_revenue":        300.75,
		"recent_revenue":       300.75,
		"pending_orders":       1,
		"pending_applications": 1,
	}
	for key, want := range checks {
		if got := resp[key].(float64); got != want {
			t.Errorf("%s: expected %v, got %v", key, want, got)
		}
	}
	if recent := resp["recent_orders"].([]interface{}); len(recent) != 3 {
		t.Errorf("expected 3 recent orders, got %d", len(recent))
	}
}
