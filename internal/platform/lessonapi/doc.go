// Package lessonapi is the HTTP client for the lesson quiz endpoint.
//
// The endpoint serves, for one lesson slug, a JSON object mapping quiz IDs
// to quiz definitions. Client implements session.Fetcher so the quiz engine
// can load quizzes without knowing about HTTP.
package lessonapi
