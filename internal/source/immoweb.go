package source

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"propwatch/internal/config"
	"propwatch/internal/domain"
)

const immowebBase = "https://www.immoweb.be"

// Immoweb scrapes search result pages with a headless browser. Immoweb
// renders its result cards client-side, so a plain HTTP fetch is not enough.
//
// Selector strategy is deliberately loose (article elements, then generic
// card containers) and will need adjustment when the site changes; the rest
// of the system only sees the RawCandidate contract.
type Immoweb struct {
	cfg   config.Config
	retry RetryConfig
}

func NewImmoweb(cfg config.Config) *Immoweb {
	return &Immoweb{
		cfg:   cfg,
		retry: RetryConfig{MaxAttempts: 3, BaseDelay: 2 * time.Second},
	}
}

func (s *Immoweb) Base() string { return immowebBase }

// SearchURL builds the result page URL for a profile.
func (s *Immoweb) SearchURL(p domain.SearchProfile) string {
	return fmt.Sprintf("%s/en/search/%s/for-sale/%s/?minPrice=%d&maxPrice=%d",
		immowebBase, p.PropertyType, p.Province, p.MinPrice, p.MaxPrice)
}

// rawCard mirrors the object shape produced by the extraction script.
type rawCard struct {
	Title string `json:"title"`
	Price string `json:"price"`
	Href  string `json:"href"`
	Text  string `json:"text"`
}

func (s *Immoweb) Scan(ctx context.Context, p domain.SearchProfile) ([]domain.RawCandidate, error) {
	searchURL := s.SearchURL(p)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if s.cfg.ChromeBin != "" {
		opts = append(opts, chromedp.ExecPath(s.cfg.ChromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	var cards []rawCard
	err := s.retry.Do(ctx, "immoweb-search", func() error {
		tabCtx, cancelTab := chromedp.NewContext(allocCtx,
			chromedp.WithLogf(func(string, ...interface{}) {}))
		defer cancelTab()

		cards = nil
		return chromedp.Run(tabCtx,
			chromedp.Navigate(searchURL),
			chromedp.Sleep(3*time.Second),
			chromedp.Evaluate(extractScript(s.cfg.MaxResults), &cards),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("immoweb scan %s: %w", p.Name, err)
	}

	out := make([]domain.RawCandidate, 0, len(cards))
	for _, c := range cards {
		out = append(out, domain.RawCandidate{
			Title:      c.Title,
			PriceText:  c.Price,
			URL:        c.Href,
			SellerHint: c.Text,
		})
	}
	return out, nil
}

// extractScript collects up to max result cards. It tries semantic article
// elements first and falls back to anything card-like, pulling the first
// link, heading and euro-priced text out of each.
func extractScript(max int) string {
	return fmt.Sprintf(`
		(function() {
			var cards = Array.from(document.querySelectorAll('article'));
			if (cards.length === 0) {
				cards = Array.from(document.querySelectorAll('div')).filter(function(d) {
					return d.className && String(d.className).toLowerCase().indexOf('card') !== -1;
				});
			}
			var out = [];
			for (var i = 0; i < cards.length && out.length < %d; i++) {
				var card = cards[i];
				var link = card.querySelector('a[href]');
				if (!link) continue;
				var heading = card.querySelector('h2, h3') || link;
				var text = card.textContent || '';
				var price = '';
				var m = text.match(/€\s?[\d.,]+/);
				if (m) price = m[0];
				out.push({
					title: (heading.textContent || '').trim(),
					price: price,
					href: link.getAttribute('href') || '',
					text: text
				});
			}
			return out;
		})()
	`, max)
}
