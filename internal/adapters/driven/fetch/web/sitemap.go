package web

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/docmon-labs/docmon-cli/internal/logger"
)

// maxNestedSitemaps bounds how many child sitemaps a sitemap index is
// allowed to reference before the rest are ignored.
const maxNestedSitemaps = 10

// urlSet is the <urlset> sitemap format.
type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc string `xml:"loc"`
}

// sitemapIndex is the <sitemapindex> format referencing child sitemaps.
type sitemapIndex struct {
	XMLName  xml.Name       `xml:"sitemapindex"`
	Sitemaps []sitemapEntry `xml:"sitemap"`
}

type sitemapEntry struct {
	Loc string `xml:"loc"`
}

// FetchSitemap retrieves a sitemap and returns the listed page URLs.
// Sitemap indexes are followed one level deep.
func (f *Fetcher) FetchSitemap(ctx context.Context, url string) ([]string, error) {
	body, _, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	return f.parseSitemap(ctx, body, true)
}

// parseSitemap extracts page URLs from sitemap XML. followIndex guards
// against sitemap indexes that reference further indexes.
func (f *Fetcher) parseSitemap(ctx context.Context, body string, followIndex bool) ([]string, error) {
	var set urlSet
	if err := xml.Unmarshal([]byte(body), &set); err == nil && len(set.URLs) > 0 {
		urls := make([]string, 0, len(set.URLs))
		for _, entry := range set.URLs {
			loc := strings.TrimSpace(entry.Loc)
			if loc != "" {
				urls = append(urls, loc)
			}
		}
		return urls, nil
	}

	var index sitemapIndex
	if err := xml.Unmarshal([]byte(body), &index); err == nil && len(index.Sitemaps) > 0 {
		if !followIndex {
			return nil, fmt.Errorf("nested sitemap index not supported")
		}

		var urls []string
		children := index.Sitemaps
		if len(children) > maxNestedSitemaps {
			children = children[:maxNestedSitemaps]
		}

		for _, child := range children {
			loc := strings.TrimSpace(child.Loc)
			if loc == "" {
				continue
			}

			childBody, _, err := f.get(ctx, loc)
			if err != nil {
				logger.Warn("child sitemap %s failed: %v", loc, err)
				continue
			}

			childURLs, err := f.parseSitemap(ctx, childBody, false)
			if err != nil {
				logger.Warn("child sitemap %s unparseable: %v", loc, err)
				continue
			}
			urls = append(urls, childURLs...)
		}
		return urls, nil
	}

	return nil, fmt.Errorf("content is not a recognised sitemap")
}
