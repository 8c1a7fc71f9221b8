// Package archive manages the Archives of Bharatvarsh: the canonical lore
// chunks Bhoomi draws on when answering travelers.
//
// Chunks live in PostgreSQL with pgvector. Indexing embeds chunk content
// through the configured embedder and upserts it; retrieval runs a cosine
// nearest-neighbor query and returns chunks ranked by similarity. Every
// chunk carries a spoiler tier (S1 spoiler-free through S3 full spoilers)
// so retrieval can be capped at the reader's tier.
package archive
