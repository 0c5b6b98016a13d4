// Package weatherapi implements the client for the upstream weather API.
//
// Two endpoints are used:
//   - current.json resolves a free-text location query to a canonical
//     name, country, and IANA timezone. The service uses it as a location
//     lookup and to compute the location's current local date.
//   - history.json returns one full day of weather for a location: a day
//     summary block plus 24 hourly blocks.
//
// Error mapping follows the upstream's convention: HTTP 400 means the
// query did not resolve to a known location (ErrLocationNotFound); any
// other non-2xx status is treated as an upstream availability problem.
package weatherapi
