package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestIDArg(t *testing.T) {
	if id, err := idArg("product", []string{"42"}); err != nil || id != 42 {
		t.Fatalf("idArg = %d, %v", id, err)
	}
	if _, err := idArg("product", nil); err == nil {
		t.Fatalf("expected missing id error")
	}
	if _, err := idArg("product", []string{"abc"}); err == nil {
		t.Fatalf("expected invalid id error")
	}
}

func TestRunPrintsProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":5,"title":"Soup","price":150,"categoryTitle":"Food"}]`))
		case "/products/-1":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"status":404,"message":"Unable to find product with id: -1","timestamp":"now"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()
	t.Setenv("HTTP_LOG_LEVEL", "none")
	t.Setenv("LEDGER_TYPE", "none")
	t.Setenv("PUBLISHERS_FILE", "")

	var out bytes.Buffer
	if err := run([]string{"-url", srv.URL, "products"}, &out); err != nil {
		t.Fatalf("run products: %v", err)
	}
	if !strings.Contains(out.String(), `"title": "Soup"`) {
		t.Fatalf("unexpected output %s", out.String())
	}

	out.Reset()
	err := run([]string{"-url", srv.URL, "product", "-1"}, &out)
	if err == nil {
		t.Fatalf("expected error for missing product")
	}
	if !strings.Contains(out.String(), "Unable to find product with id: -1") {
		t.Fatalf("expected error message in output, got %s", out.String())
	}
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	t.Setenv("LEDGER_TYPE", "none")
	var out bytes.Buffer
	if err := run(nil, &out); err == nil {
		t.Fatalf("expected missing command error")
	}
	if err := run([]string{"frobnicate"}, &out); err == nil {
		t.Fatalf("expected unknown command error")
	}
}

func TestRunDeleteReportsServerAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		switch r.URL.Path {
		case "/products/5":
			w.WriteHeader(http.StatusOK)
		default:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"status":500,"message":"Internal Server Error","timestamp":"now"}`))
		}
	}))
	defer srv.Close()
	t.Setenv("HTTP_LOG_LEVEL", "none")
	t.Setenv("LEDGER_TYPE", "none")
	t.Setenv("PUBLISHERS_FILE", "")

	var out bytes.Buffer
	if err := run([]string{"-url", srv.URL, "delete", "5"}, &out); err != nil {
		t.Fatalf("run delete 5: %v", err)
	}
	if !strings.Contains(out.String(), `"deleted": 5`) {
		t.Fatalf("unexpected output %s", out.String())
	}

	out.Reset()
	err := run([]string{"-url", srv.URL, "delete", "-1"}, &out)
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected 500 to fail the command, got %v", err)
	}
	if strings.Contains(out.String(), "deleted") {
		t.Fatalf("failed delete reported as success: %s", out.String())
	}
	if !strings.Contains(out.String(), `"status": 500`) {
		t.Fatalf("expected server error message in output, got %s", out.String())
	}
}
