// Package crawler discovers image and document URLs reachable from a seed
// page.
//
// # Components
//
//   - Frontier: level-partitioned store of pending and visited URLs
//   - Document: HTML parsing capability ("values of attr on elements tag")
//   - Extractor: resolves and classifies the links of one page
//   - Spider: the pop/fetch/extract/enqueue loop
//
// # Traversal
//
// The seed is level 1. Image sources on every visited page are collected.
// Anchors are only inspected while the page level is below the maximum
// level (or the crawl is unlimited). Anchors ending in .pdf or .docx are
// collected as documents whatever their host; other anchors are followed
// only when their host equals the seed host. A URL is visited at most
// once, which is the only cycle protection.
//
// The loop is sequential. The Frontier and the discovered-resource set
// belong to one Spider and are not safe for concurrent use.
//
// # Usage
//
//	spider := crawler.NewSpider(fetcher.New(), cfg, crawler.WithEmitter(sink))
//	resources, err := spider.Crawl(ctx)
package crawler
