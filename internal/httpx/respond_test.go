package httpx

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestPaginationMath(t *testing.T) {
	cases := []struct {
		page, limit int
		total       int64
		totalPages  int
		hasNext     bool
		hasPrev     bool
	}{
		{1, 10, 0, 0, false, false},
		{1, 10, 10, 1, false, false},
		{1, 10, 11, 2, true, false},
		{2, 10, 11, 2, false, true},
		{2, 10, 35, 4, true, true},
	}
	for _, tc := range cases {
		p := newPagination(tc.page, tc.limit, tc.total)
		if p.TotalPages != tc.totalPages || p.HasNext != tc.hasNext || p.HasPrev != tc.hasPrev {
			t.Errorf("newPagination(%d, %d, %d) = %+v, want pages %d next %v prev %v",
				tc.page, tc.limit, tc.total, p, tc.totalPages, tc.hasNext, tc.hasPrev)
		}
	}
}

func TestPaginationTotalsAreResourceSpecific(t *testing.T) {
	inv := InvoicePagination(1, 10, 7)
	if inv.TotalInvoices == nil || *inv.TotalInvoices != 7 || inv.TotalProducts != nil {
		t.Errorf("invoice pagination = %+v", inv)
	}
	prod := ProductPagination(1, 10, 7)
	if prod.TotalProducts == nil || *prod.TotalProducts != 7 || prod.TotalInvoices != nil {
		t.Errorf("product pagination = %+v", prod)
	}

	// The absent total must be omitted from the wire form entirely.
	b, err := json.Marshal(inv)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, has := m["totalProducts"]; has {
		t.Errorf("invoice pagination serialized totalProducts: %s", b)
	}
	if m["totalInvoices"] != float64(7) {
		t.Errorf("totalInvoices = %v", m["totalInvoices"])
	}
}

func TestEnvelopeShapes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(fn func(c *gin.Context)) (int, map[string]any) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/", nil)
		fn(c)
		var m map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
			t.Fatalf("decode %q: %v", w.Body.String(), err)
		}
		return w.Code, m
	}

	code, m := run(func(c *gin.Context) { OK(c, gin.H{"x": 1}) })
	if code != 200 || m["success"] != true || m["data"] == nil {
		t.Errorf("OK = %d %v", code, m)
	}
	if _, has := m["message"]; has {
		t.Errorf("OK carries message: %v", m)
	}

	code, m = run(func(c *gin.Context) { Created(c, "made", gin.H{"x": 1}) })
	if code != 201 || m["message"] != "made" {
		t.Errorf("Created = %d %v", code, m)
	}

	code, m = run(func(c *gin.Context) { Fail(c, 404, "nope") })
	if code != 404 || m["success"] != false || m["message"] != "nope" {
		t.Errorf("Fail = %d %v", code, m)
	}
}
