// Package segsocial provides a retrieval-augmented question answering
// service over a corpus of Argentine social-security law. Queries are
// matched to the single most relevant law via vector similarity over
// lightweight title+summary embeddings, and answers are generated against
// the full law text through a provider-side prepared-context cache when
// one is available.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., sqlite/,
// chromem/, gemini/).
package segsocial
