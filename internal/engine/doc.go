// Package engine wraps the external metadata extractor: it builds argument
// vectors for probe, search, and playlist requests, rebrands surfaced tool
// output, and shapes the JSON dump into categorized format lists (audio-only,
// DRC, video-only, HDR, progressive, manifest) with quality selectors.
package engine
