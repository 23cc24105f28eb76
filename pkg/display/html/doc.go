// Package html renders form props as an HTML fragment using pongo2 templates.
// Values are escaped by the template engine; error and help markup goes
// through a bluemonday policy so servers may return simple formatting.
package html
