// Package models defines the document model for TravelTracker.
//
// # Documents
//
// Every persisted entity is a document: a stable UUID identity, a kind tag,
// and a listener registry notified on mutation. The concrete kinds are:
//   - Claim: a travel expense claim owned by a claimant, reviewed by an approver
//   - Item: a single expense line belonging to a claim
//   - User: the identity anchor for ownership relations
//
// Two documents are the same logical entity iff their UUIDs are equal,
// regardless of field contents. Cross-entity links are UUIDs, never embedded
// object graphs, so the model stays free of circular references; owned value
// collections (destinations, comments, tags) live inside their claim.
//
// # Mutation and notification
//
// All mutation goes through the exported setters. Each setter assigns the
// field and synchronously notifies every registered listener, in registration
// order, exactly once, before returning. The merge engine is the one
// exception: it writes fields directly so that reconciling a remote copy does
// not re-mark the document dirty.
//
// The model itself holds no locks. Concurrent access to a single document
// must be serialized externally, per document id; the datasource does this
// with per-id mutexes.
//
// # Merging
//
// Merge reconciles a local and a remote copy of the same logical document
// field by field under a source-wins-on-difference policy, driven by
// declarative per-kind field rule tables. See Merge.
package models
