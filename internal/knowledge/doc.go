// Package knowledge implements the knowledge-base side of the assistant:
// embedding, the persistent vector index, first-run ingestion of the PDF
// corpus, and retrieval of query context.
//
// The index is an embedded chromem-go collection on local disk. Documents
// are chunked word windows keyed "{stem}_chunk_{ordinal}"; similarity is
// cosine. The collection is add-only in normal operation: ingestion runs
// once against an empty collection and later starts reuse the persisted
// index unchanged.
package knowledge
