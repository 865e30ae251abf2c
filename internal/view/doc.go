// Package view renders the ECCO markings of a document as an HTML page.
//
// A View fetches sparse markings from a Source, completes them against the
// document text, colors each marking and renders the result:
//
//	v, err := view.Associations(client, view.WithMetrics(m))
//	if err != nil {
//		return err
//	}
//	page, err := v.Render(ctx, marking.NewTextDocument(text), uri)
//
// The associations view keys fragments by association id and describes
// them by condition. The features view keys fragments by their joined
// feature list.
package view
