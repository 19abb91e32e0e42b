// Package session runs quizzes inside page containers.
//
// An Engine keeps one session per container. A session is loaded from the
// lesson API, presents its working question order one question at a time,
// accepts a single answer per question once the misclick lock window has
// passed, and finishes with a scored summary that can be retried.
//
// State per container:
//
//	Loading -> Failed (terminal)
//	Loading -> Awaiting(0) -> Answered(0) -> Awaiting(1) -> ... -> Summary
//	Summary -> Awaiting(0) on retry, with a fresh working order
package session
