// Package docfx assembles documentation sites into navigable PDF files
// using headless Chrome.
//
// # Quick Start
//
// Create a service and point it at a built documentation directory
// containing toc.json files:
//
//	svc := docfx.New(docfx.WithConfig(docfx.DefaultConfig()))
//	if err := svc.BuildPDFs(ctx, "./_site"); err != nil {
//	    log.Fatal(err)
//	}
//
// Every toc.json whose root carries enablePdf: true produces a sibling
// toc.pdf containing the rendered pages of its outline, a unified bookmark
// tree, named destinations for internal links, and the merged accessibility
// structure tree.
//
// # Pipeline
//
// The build proceeds in three stages:
//
//  1. TOC discovery: toc.json outline trees are found under the root
//     directory and their hrefs resolved against a local static file
//     server.
//  2. Rendering: each unique page URL is printed to PDF bytes by headless
//     Chrome (go-rod), in parallel over a pool of reusable browser pages.
//  3. Merging: per TOC, the page PDFs are byte-spliced into one document.
//     The merger renumbers objects into a unified id space as it streams,
//     then synthesizes the catalog, page tree, outline tree, structure
//     tree and named destinations.
//
// The merger is not a general PDF parser. It relies on invariants of
// Chrome's PDF 1.4 output (one object per "N 0 obj" block, sequential ids,
// inline ParentTree /Nums arrays) to process the byte stream linearly
// without building an object graph.
//
// # Configuration
//
// Config controls Chrome's print options (paper size, margins, landscape,
// header and footer templates, background printing) and the external link
// base URL. See DefaultConfig for the defaults.
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set CI=true to disable the Chrome
// sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package docfx
