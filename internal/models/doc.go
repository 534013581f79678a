// Package models defines the core domain records for a split-bill session.
//
// # Records
//
//   - Item: a bill line item, keyed by name
//   - Person: a participant, keyed by name
//   - Initiator / PaymentAccount: who collects the money and where to send it
//   - RestaurantInfo: optional display header for summaries
//   - Summary / PersonBreakdown: the fully resolved output consumed by the
//     image and email exporters
//   - SessionSnapshot: the flat form a session takes when handed to the
//     storage collaborator
//
// Participants are identified by name strings; there are no user accounts.
//
// # Design Principles
//
// 1. **Single session**: every record lives inside one session's ledger
// 2. **Value output**: Summary and its parts are plain values with no
// back-references into the ledger, so exporters can hold them freely
// 3. **Avoid circular references**: relations use name strings, not pointers
package models
