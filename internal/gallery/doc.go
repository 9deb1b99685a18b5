// Package gallery lists the photos published by the site.
//
// Two categories exist: the carousel ("photos") and the collage ("gf-photos").
// A Source turns a category into an ordered list of Image descriptors.
// DirSource reads local directories and HTTPSource asks a running site server.
// Watcher and Monitor detect listing changes so clients can refresh.
package gallery
