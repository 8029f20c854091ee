// Package main provides the voyager CLI.
//
// voyager crawls a Janeway journal site, collects article metadata and
// reconciles the articles it finds against DOI registry records.
//
// Usage:
//
//	voyager articles https://www.iastatedigitalpress.com/jpa/articles
//	voyager metadata --fields all --urls urls.txt -o metadata.tsv
//	voyager reconcile https://www.iastatedigitalpress.com/jpa/articles --registry records.json
//
// See --help for all available options.
package main

func main() {
	Execute()
}
