// Package catalog provides the HTTP client for the prompt catalog sources.
//
// # Overview
//
// Two kinds of sources feed promptdeck:
//
//   - Static catalogs: data/faculty_prompts.json and data/student_prompts.json,
//     served next to the public site. Each is a JSON array of entries.
//   - The community endpoint: a web app answering ?action=getCommunity,
//     ?action=getLikes and ?action=addLike.
//
// The client performs I/O only. It does not merge, normalize identifiers or
// decide what to do when a source fails; that is the engine's job.
//
// # Endpoints
//
//	GET  {site}/data/{role}_prompts.json          -> []Entry
//	GET  {endpoint}?action=getCommunity&t={ms}    -> {shared, request, likes}
//	GET  {endpoint}?action=getLikes&t={ms}        -> {id: count}
//	POST {endpoint}?action=addLike                 body {id, title, source}
//
// The t parameter is a cache buster. Any non-2xx status or undecodable body
// is returned as an error.
//
// # Unconfigured endpoint
//
// An endpoint that is empty or still contains PlaceholderToken is treated as
// unconfigured. Every community call checks Configured first and returns
// ErrUnconfigured without touching the network.
//
// # Payload shapes
//
// The community source is loosely typed. Text fields accept numbers and
// booleans (Text), list fields accept either a comma separated string or an
// array (FlexList), and like counts accept numeric strings (Likes). This is
// the only place shapes are inspected; everything downstream works on the
// decoded types.
package catalog
