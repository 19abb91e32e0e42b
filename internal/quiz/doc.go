// Package quiz defines the quiz domain: question banks as served by the
// lesson API, the working question order presented to a learner, running
// scores, and the feedback tier shown on the summary.
package quiz
