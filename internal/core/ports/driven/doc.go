// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentLoader / LoaderRegistry: Extract text from files on disk
//   - Splitter: Cut documents into overlapping chunks
//   - VectorStore: Embed, persist and search chunks
//   - HistoryStore: Durable per-session transcripts
//   - LLMService: Chat completion against a local or hosted model
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ModelLister: Enumerates models of a local backend
//   - IngestRunStore: Keeps a log of ingestion runs
//   - PromptStore: User-editable prompt templates (embedded defaults otherwise)
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, loader, or connector package
package driven
