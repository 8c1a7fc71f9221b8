// Package moderation implements the heuristic content gate that runs before
// any AI-cost stage of the publication workflow.
//
// The gate combines three independent signals:
//
//   - pattern checks: pure string heuristics for spam and abuse markers
//   - duplicate fingerprint: a normalizing non-cryptographic digest used to
//     spot likely-duplicate submissions
//   - velocity check: a per-author posting-rate signal backed by a count
//     query against the posts table
//
// Pattern checks and fingerprinting never fail. The velocity check and the
// fingerprint lookup reach the database through injected collaborators; when
// a collaborator is unavailable the error propagates so the caller blocks
// publication instead of failing open.
package moderation
