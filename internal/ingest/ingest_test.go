package ingest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		input      string
		defaultSig string
		want       Line
		wantErr    bool
	}{
		{`{"signal":"lat","value":42.5}`, "", Line{Signal: "lat", Value: 42.5}, false},
		{`{"value":7}`, "fallback", Line{Signal: "fallback", Value: 7}, false},
		{`{"value":7}`, "", Line{}, true},
		{`not json`, "s", Line{}, true},
		{`{"signal":"lat","value":"nope"}`, "", Line{}, true},
	}

	for _, tt := range tests {
		got, err := parseLine(tt.input, tt.defaultSig)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseLine(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseLine(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLine(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestStream(t *testing.T) {
	var observed []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		observed = append(observed, r.URL.Path)
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	c := NewClientURL(ts.URL)
	input := strings.Join([]string{
		`{"signal":"a","value":1}`,
		``,
		`{"value":2}`,
		`garbage`,
		`{"signal":"b","value":3}`,
	}, "\n")

	posted, errored := Stream(c, strings.NewReader(input), "default_sig")

	if posted != 3 {
		t.Errorf("posted = %d, want 3", posted)
	}
	if errored != 1 {
		t.Errorf("errored = %d, want 1", errored)
	}

	want := []string{
		"/api/signals/a/observations",
		"/api/signals/default_sig/observations",
		"/api/signals/b/observations",
	}
	if len(observed) != len(want) {
		t.Fatalf("server saw %d requests, want %d: %v", len(observed), len(want), observed)
	}
	for i := range want {
		if observed[i] != want[i] {
			t.Errorf("request %d path = %q, want %q", i, observed[i], want[i])
		}
	}
}

func TestStreamServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"unknown signal"}`, http.StatusNotFound)
	}))
	defer ts.Close()

	c := NewClientURL(ts.URL)
	posted, errored := Stream(c, strings.NewReader(`{"signal":"x","value":1}`), "")

	if posted != 0 {
		t.Errorf("posted = %d, want 0", posted)
	}
	if errored != 1 {
		t.Errorf("errored = %d, want 1", errored)
	}
}

func TestHealthy(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	if !NewClientURL(ts.URL).Healthy() {
		t.Error("Healthy = false against live server")
	}
	if NewClientURL("http://127.0.0.1:1").Healthy() {
		t.Error("Healthy = true against dead address")
	}
}
