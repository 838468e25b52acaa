package collector

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fashion-etl/config"
	"fashion-etl/internal/metrics"
	"fashion-etl/internal/record"
)

type Options struct {
	BaseURL     string
	IndexPath   string
	PagePattern string
	StartPage   int
	PageDelay   time.Duration
}

func OptionsFromConfig(cfg config.CrawlConfig) Options {
	return Options{
		BaseURL:     cfg.BaseURL,
		IndexPath:   cfg.IndexPath,
		PagePattern: cfg.PagePattern,
		StartPage:   cfg.StartPage,
		PageDelay:   cfg.PageDelay,
	}
}

// Collector walks the listing one page at a time and turns every product card
// into a RawRecord.
type Collector struct {
	opts    Options
	fetcher Fetcher
	logger  *zap.SugaredLogger
	metrics *metrics.Metrics
	now     func() time.Time
}

func New(opts Options, fetcher Fetcher, logger *zap.SugaredLogger, m *metrics.Metrics) *Collector {
	if opts.StartPage < 1 {
		opts.StartPage = 1
	}
	return &Collector{
		opts:    opts,
		fetcher: fetcher,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// NewFromConfig wires the resty fetcher, fronted by the redis page cache when a
// client is available.
func NewFromConfig(cfg *config.Config, rdb *redis.Client, logger *zap.SugaredLogger, m *metrics.Metrics) *Collector {
	fetcher := WithCache(
		NewHTTPFetcher(cfg.Crawl.UserAgent, cfg.Crawl.Timeout),
		NewRedisPageCache(rdb, cfg.Redis.PageTTL),
		logger,
	)
	return New(OptionsFromConfig(cfg.Crawl), fetcher, logger, m)
}

// WithLogger returns a copy of c that logs through logger.
func (c *Collector) WithLogger(logger *zap.SugaredLogger) *Collector {
	cp := *c
	cp.logger = logger
	return &cp
}

// PageURL maps page 1 to the index path and every other page to PagePattern.
func (c *Collector) PageURL(page int) string {
	path := c.opts.IndexPath
	if page != 1 {
		path = fmt.Sprintf(c.opts.PagePattern, page)
	}
	return strings.TrimRight(c.opts.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// Crawl returns every record found until a page has no next link or a fetch
// fails. A failed fetch ends the crawl without an error; a card that does not
// parse ends it with one. Either way the records gathered so far are returned.
func (c *Collector) Crawl(ctx context.Context) ([]record.RawRecord, error) {
	var out []record.RawRecord

	for page := c.opts.StartPage; ; page++ {
		pageURL := c.PageURL(page)
		c.logger.Infow("crawl_page_fetch", "page", page, "url", pageURL)

		body, err := c.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return out, ctxErr
			}
			c.metrics.FetchFailures.Inc()
			c.logger.Warnw("crawl_page_fetch_failed",
				"page", page,
				"url", pageURL,
				"err", err,
			)
			return out, nil
		}
		c.metrics.PagesFetched.Inc()

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return out, fmt.Errorf("read page %s: %w", pageURL, err)
		}

		records, err := c.parsePage(doc)
		out = append(out, records...)
		if err != nil {
			return out, fmt.Errorf("page %s: %w", pageURL, err)
		}
		c.logger.Infow("crawl_page_parsed", "page", page, "cards", len(records), "total", len(out))

		if doc.Find(nextSelector).Length() == 0 {
			c.logger.Infow("crawl_finished", "pages", page-c.opts.StartPage+1, "records", len(out))
			return out, nil
		}

		if err := sleepContext(ctx, c.opts.PageDelay); err != nil {
			return out, err
		}
	}
}

func (c *Collector) parsePage(doc *goquery.Document) ([]record.RawRecord, error) {
	var (
		out      []record.RawRecord
		parseErr error
	)
	doc.Find(cardSelector).EachWithBreak(func(i int, card *goquery.Selection) bool {
		rec, err := ParseCard(card, c.now())
		if err != nil {
			parseErr = fmt.Errorf("card %d: %w", i, err)
			return false
		}
		c.metrics.CardsParsed.Inc()
		out = append(out, rec)
		return true
	})
	return out, parseErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
