// Package forecast assembles weather reports.
//
// The "today" path is a straight read: resolve the location, fetch its
// current local day from the history endpoint, and map the payload into
// an ObservedReport.
//
// The "tomorrow" path drives the prediction model: it extracts one
// 17-value feature row from each of the past seven local days (oldest
// first) and posts the matrix to the remote prediction API, which returns
// the next day's forecast. The feature order and the 7-day window are a
// wire contract with the trained model.
//
// Both paths enforce the coverage gate: locations resolving outside
// Australia are reported as not found, because the model was trained on
// Australian weather only.
package forecast
