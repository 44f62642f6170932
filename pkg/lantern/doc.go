// Package lantern condenses CI build logs into short digests: error lines
// highlighted, a few lines of context around each, everything else folded
// into skip markers.
//
// Quick start:
//
//	l := lantern.New()
//	d, err := l.Digest(logBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, rec := range d.Records {
//	    switch r := rec.(type) {
//	    case lantern.Line:
//	        fmt.Println(r.Text)
//	    case lantern.Skip:
//	        fmt.Println(r.Label)
//	    }
//	}
//
// HTML and ANSI render the same digest straight to a string. All entry
// points are pure with respect to their inputs and safe to call
// concurrently.
package lantern
