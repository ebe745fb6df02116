// Package social renders social preview cards for pages and stores them in a
// content-addressed cache.
//
// A card is a 1200x630 PNG composed from a background, an optional logo, the
// site name, the page title and the page description. Pages that declare a
// header image get the header layout, which places the image at the bottom
// right with a rounded top-left corner.
//
// Cards are keyed by an md5 fingerprint of site name, title and description.
// A cached file is never re-rendered; removing the cache directory forces a
// fresh render.
package social
