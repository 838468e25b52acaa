package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fashion-etl/internal/metrics"
)

type fakePage struct {
	titles []string
	next   bool
	status int
}

func cardHTML(title string) string {
	return fmt.Sprintf(`
<div class="collection-card">
  <div class="product-details">
    <h3 class="product-title">%s</h3>
    <div class="price-container"><span class="price">$20.00</span></div>
    <p>Rating: ⭐ 4.5 / 5</p>
    <p>3 Colors</p>
    <p>Size: M</p>
    <p>Gender: Men</p>
  </div>
</div>`, title)
}

func pageHTML(p fakePage) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="collectionList">`)
	for _, title := range p.titles {
		b.WriteString(cardHTML(title))
	}
	b.WriteString(`</div><ul class="pagination">`)
	if p.next {
		b.WriteString(`<li class="page-item next"><a class="page-link" href="#">Next</a></li>`)
	}
	b.WriteString(`</ul></body></html>`)
	return b.String()
}

// newFakeSite serves pages keyed by path and counts every request.
func newFakeSite(t *testing.T, pages map[string]fakePage) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	r := chi.NewRouter()
	r.Get("/{page}", func(w http.ResponseWriter, req *http.Request) {
		hits.Add(1)
		p, ok := pages[chi.URLParam(req, "page")]
		if !ok {
			http.NotFound(w, req)
			return
		}
		if p.status != 0 {
			w.WriteHeader(p.status)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(pageHTML(p)))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestCollector(baseURL string, m *metrics.Metrics) *Collector {
	return New(Options{
		BaseURL:     baseURL,
		IndexPath:   "index.html",
		PagePattern: "page%d.html",
		StartPage:   1,
	}, NewHTTPFetcher("fashion-etl-test", 5*time.Second), zap.NewNop().Sugar(), m)
}

func TestCollector_PageURL(t *testing.T) {
	c := newTestCollector("https://fashion-studio.dicoding.dev/", metrics.NewNop())

	require.Equal(t, "https://fashion-studio.dicoding.dev/index.html", c.PageURL(1))
	require.Equal(t, "https://fashion-studio.dicoding.dev/page2.html", c.PageURL(2))
	require.Equal(t, "https://fashion-studio.dicoding.dev/page50.html", c.PageURL(50))
}

func TestCollector_Crawl_StopsWhenNoNextLink(t *testing.T) {
	srv, hits := newFakeSite(t, map[string]fakePage{
		"index.html": {titles: []string{"T-shirt 1", "Hoodie 2"}, next: true},
		"page2.html": {titles: []string{"Pants 3"}, next: true},
		"page3.html": {titles: []string{"Outerwear 4"}},
		"page4.html": {titles: []string{"never"}},
	})
	m := metrics.NewNop()
	c := newTestCollector(srv.URL, m)

	recs, err := c.Crawl(context.Background())
	require.NoError(t, err)

	require.Equal(t, int32(3), hits.Load())
	require.Len(t, recs, 4)
	titles := []string{recs[0].Title, recs[1].Title, recs[2].Title, recs[3].Title}
	require.Equal(t, []string{"T-shirt 1", "Hoodie 2", "Pants 3", "Outerwear 4"}, titles)
	require.Equal(t, float64(3), testutil.ToFloat64(m.PagesFetched))
	require.Equal(t, float64(4), testutil.ToFloat64(m.CardsParsed))
}

func TestCollector_Crawl_FetchFailureKeepsEarlierPages(t *testing.T) {
	srv, hits := newFakeSite(t, map[string]fakePage{
		"index.html": {titles: []string{"T-shirt 1", "Hoodie 2"}, next: true},
		"page2.html": {status: http.StatusInternalServerError},
		"page3.html": {titles: []string{"never"}},
	})
	m := metrics.NewNop()
	c := newTestCollector(srv.URL, m)

	recs, err := c.Crawl(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(2), hits.Load())
	require.Len(t, recs, 2)
	require.Equal(t, "Hoodie 2", recs[1].Title)
	require.Equal(t, float64(1), testutil.ToFloat64(m.FetchFailures))
}

func TestCollector_Crawl_FirstPageFailureYieldsNothing(t *testing.T) {
	srv, _ := newFakeSite(t, map[string]fakePage{})
	c := newTestCollector(srv.URL, metrics.NewNop())

	recs, err := c.Crawl(context.Background())
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestCollector_Crawl_MarkupErrorPropagates(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/index.html", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>` + cardHTML("Good 1") +
			`<div class="collection-card"><div class="product-details"><p>Rating: 4 / 5</p></div></div>` +
			`<li class="page-item next"></li></body></html>`))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	recs, err := newTestCollector(srv.URL, metrics.NewNop()).Crawl(context.Background())
	require.ErrorIs(t, err, ErrMissingTitle)
	require.Contains(t, err.Error(), "card 1")
	require.Len(t, recs, 1)
}

func TestCollector_Crawl_HonoursContextDuringDelay(t *testing.T) {
	srv, hits := newFakeSite(t, map[string]fakePage{
		"index.html": {titles: []string{"T-shirt 1"}, next: true},
		"page2.html": {titles: []string{"never"}},
	})
	c := newTestCollector(srv.URL, metrics.NewNop())
	c.opts.PageDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	recs, err := c.Crawl(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Len(t, recs, 1)
	require.Equal(t, int32(1), hits.Load())
}

func TestHTTPFetcher_SendsUserAgentAndFailsOnStatus(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)

	f := NewHTTPFetcher("fashion-etl-test", 5*time.Second)

	body, err := f.Fetch(context.Background(), srv.URL+"/index.html")
	require.NoError(t, err)
	require.Equal(t, "ok", string(body))
	require.Equal(t, "fashion-etl-test", gotUA)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	require.ErrorContains(t, err, "status 404")
}
