// Package site drives a build: it discovers the files under the docs
// directory, runs them through the plugin hooks, renders Markdown pages to
// HTML and writes the result to the site directory.
//
// Build stages, in order:
//
//  1. on_config for every plugin
//  2. discovery (sorted walk of docs_dir)
//  3. on_files
//  4. per page: front matter, title, on_page_markdown, render, on_page_content, write
//  5. static file copy
//  6. on_post_build
//
// The first error aborts the build. Renders already scheduled by plugins are
// still joined before Build returns.
package site
