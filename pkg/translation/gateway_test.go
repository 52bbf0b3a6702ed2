package translation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smith3v/lingochat/pkg/config"
)

func TestDeepLClientTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/translate" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "DeepL-Auth-Key secret" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req deeplRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.SourceLang != "ES" || req.TargetLang != "EN" || len(req.Text) != 2 {
			t.Errorf("unexpected payload %+v", req)
		}
		_, _ = w.Write([]byte(`{"translations":[{"detected_source_language":"ES","text":"house"},{"detected_source_language":"ES","text":"my house"}]}`))
	}))
	defer srv.Close()

	client := NewDeepLClient(config.TranslationConfig{BaseURL: srv.URL + "/", APIKey: "secret", TimeoutSeconds: 5})
	out, err := client.Translate(context.Background(), []string{"casa", "mi casa"}, "ES", "EN")
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if len(out) != 2 || out[0] != "house" || out[1] != "my house" {
		t.Fatalf("unexpected output %v", out)
	}
}

func TestDeepLClientFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{name: "forbidden", status: http.StatusForbidden, body: `{"message":"Wrong endpoint"}`},
		{name: "quota", status: 456, body: ``},
		{name: "bad json", status: http.StatusOK, body: `not json`},
		{name: "count mismatch", status: http.StatusOK, body: `{"translations":[{"text":"house"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := NewDeepLClient(config.TranslationConfig{BaseURL: srv.URL, APIKey: "k", TimeoutSeconds: 5})
			if _, err := client.Translate(context.Background(), []string{"casa", "mi casa"}, "ES", "EN"); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
