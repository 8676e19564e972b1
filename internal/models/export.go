package models

// ExportDocument is the serialized form of a full game: the current snapshot
// plus every ledger event. Import accepts the same shape.
type ExportDocument struct {
	// Game is the snapshot of the live projection
	Game *GameState `json:"game"`

	// Details is the full event ledger
	Details []*Detail `json:"details"`
}
