package store

import "wordrace/internal/domain"

// Tx is a handle on one room, valid only inside the Do callback that
// received it. Everything done through it is atomic with respect to other
// transactions on the same room.
type Tx struct {
	store *Store
	room  *domain.Room
}

// Room exposes the live room for reads and domain-level mutations
func (tx *Tx) Room() *domain.Room {
	return tx.room
}

// Snapshot returns a deep copy of the current room state
func (tx *Tx) Snapshot() *domain.RoomSnapshot {
	return tx.room.Snapshot()
}

// UpsertPlayer appends a new player or marks an existing one online and renames it
func (tx *Tx) UpsertPlayer(playerID, name string) (*domain.Player, error) {
	player, created, err := tx.room.UpsertPlayer(playerID, name)
	if err != nil {
		return nil, err
	}
	if created {
		tx.store.logger.Info().
			Str("roomId", tx.room.ID).
			Str("playerId", playerID).
			Str("name", player.Name).
			Msg("player joined")
	} else {
		tx.store.logger.Info().
			Str("roomId", tx.room.ID).
			Str("playerId", playerID).
			Msg("player rejoined")
	}
	return player, nil
}

// ApplyPlayerPatch merges only the fields present in patch
func (tx *Tx) ApplyPlayerPatch(playerID string, patch domain.PlayerPatch) (*domain.Player, error) {
	return tx.room.ApplyPlayerPatch(playerID, patch)
}

// MarkOffline flags a player offline and reports whether anything changed
func (tx *Tx) MarkOffline(playerID string) (bool, error) {
	changed, err := tx.room.MarkOffline(playerID)
	if changed {
		tx.store.logger.Info().
			Str("roomId", tx.room.ID).
			Str("playerId", playerID).
			Msg("player went offline")
	}
	return changed, err
}

// StartRound picks a secret not yet used in this room and starts a round with it
func (tx *Tx) StartRound() (string, error) {
	secret := tx.store.picker.PickExcluding(tx.room.UsedWords()...)
	if err := tx.room.StartRound(secret, tx.store.now()); err != nil {
		return "", err
	}
	tx.store.logger.Info().
		Str("roomId", tx.room.ID).
		Int("round", tx.room.Round).
		Msg("round started")
	return secret, nil
}
