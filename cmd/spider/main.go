// Package main provides the entry point for the spider CLI.
//
// spider crawls a web site from a seed URL, collects the images and
// documents it links to, and saves the ones whose content is a supported
// format. It can also print the metadata of saved files.
//
// Usage:
//
//	spider crawl [-r] [-l N] [-p PATH] URL
//	spider meta FILE...
//
// See --help for all available options.
package main

func main() {
	Execute()
}
