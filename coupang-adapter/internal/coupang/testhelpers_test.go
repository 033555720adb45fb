package coupang

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// cannedResponse is what the fake upstream returns for one resource.
type cannedResponse struct {
	status int
	body   string
}

// recordedRequest captures what the client put on the wire.
type recordedRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	ContentType   string
	Body          string
}

// fakeUpstream routes by resource key: "goldbox", "coupangPL",
// "bestcategories/<id>" or "links". Unknown keys answer 404.
type fakeUpstream struct {
	mu        sync.Mutex
	responses map[string]cannedResponse
	requests  []recordedRequest
}

func newFakeUpstream(t *testing.T, responses map[string]cannedResponse) (*fakeUpstream, *httptest.Server) {
	t.Helper()
	f := &fakeUpstream{responses: responses}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeUpstream) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	key := strings.TrimPrefix(r.URL.Path, productsPath+"/")
	if r.URL.Path == deeplinkPath {
		key = "links"
	}

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		RawQuery:      r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          string(body),
	})
	resp, ok := f.responses[key]
	f.mu.Unlock()

	if !ok {
		resp = cannedResponse{status: http.StatusNotFound, body: `{"rCode":"404","rMessage":"not found"}`}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}

func (f *fakeUpstream) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func (f *fakeUpstream) count(method, pathSuffix string) int {
	n := 0
	for _, r := range f.recorded() {
		if r.Method == method && strings.HasSuffix(r.Path, pathSuffix) {
			n++
		}
	}
	return n
}

func okResp(body string) cannedResponse {
	return cannedResponse{status: http.StatusOK, body: body}
}

func testCreds(subID string) Credentials {
	return Credentials{AccessKey: "test-access", SecretKey: "test-secret", PartnersID: "AF0000001", SubID: subID}
}

// newTestClient returns a client whose signer is pinned to fixedTime.
func newTestClient(t *testing.T, srv *httptest.Server, subID string) (*Client, *Signer) {
	t.Helper()
	creds := testCreds(subID)
	signer, err := NewSigner(creds, func() time.Time { return fixedTime })
	require.NoError(t, err)
	client := NewClient(zap.NewNop(), creds, signer, nil, ClientOptions{
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
	return client, signer
}

// newTestPipeline wires client, resolver and pipeline against srv.
func newTestPipeline(t *testing.T, srv *httptest.Server, concurrency int) *Pipeline {
	t.Helper()
	client, _ := newTestClient(t, srv, "blog")
	resolver := NewDeeplinkResolver(zap.NewNop(), client, 0)
	return NewPipeline(zap.NewNop(), client, resolver, concurrency)
}

const (
	productA     = `{"productName":"N","productPrice":1000,"productImage":"I","productUrl":"A"}`
	deeplinkAtoB = `{"rCode":"0","data":[{"originalUrl":"A","shortenUrl":"B"}]}`
)

func envelopeOf(items ...string) string {
	return `{"rCode":"0","rMessage":"","data":[` + strings.Join(items, ",") + `]}`
}

func int64Ptr(v int64) *int64 { return &v }
