package economy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tomz197/blaster/internal/loop/config"
	"github.com/tomz197/blaster/internal/storage"
)

var (
	// ErrCorruptSave is returned by Load when the stored record cannot be decoded.
	ErrCorruptSave = errors.New("economy: corrupt save data")
	// ErrInvalidPlayer is returned by PlayerKey for names it cannot map to a
	// key of their own.
	ErrInvalidPlayer = errors.New("economy: invalid player name")
)

// maxPlayerName bounds the length of a player name in bytes.
const maxPlayerName = 32

// SaveData is the record persisted across sessions.
type SaveData struct {
	HighScore int `json:"highScore"`
	Coins     int `json:"coins"`
	Damage    int `json:"damage"`
	FireRate  int `json:"fireRate"`
}

// Defaults returns the record a new player starts with.
func Defaults() SaveData {
	return SaveData{
		Damage:   config.DefaultDamage,
		FireRate: config.DefaultFireRate,
	}
}

// Sanitize replaces values no sequence of purchases could have produced with
// their defaults. Missing fields decode as zero and are handled the same way.
func (d SaveData) Sanitize() SaveData {
	if d.HighScore < 0 {
		d.HighScore = 0
	}
	if d.Coins < 0 {
		d.Coins = 0
	}
	if d.Damage < config.DefaultDamage {
		d.Damage = config.DefaultDamage
	}
	if d.FireRate < config.DefaultFireRate {
		d.FireRate = config.DefaultFireRate
	}
	return d
}

//go:generate go tool mockgen -destination=./mocks/store_mock.go -package=mocks . Store

// Store loads and saves the persisted record.
type Store interface {
	Load(ctx context.Context) (SaveData, error)
	Save(ctx context.Context, data SaveData) error
}

// KVStore keeps the record as JSON under a single key of a storage.KV.
type KVStore struct {
	kv  storage.KV
	key string
}

// Compile-time check that KVStore implements Store.
var _ Store = (*KVStore)(nil)

// NewKVStore creates a store for the record under key. An empty key selects
// config.SaveKey.
func NewKVStore(kv storage.KV, key string) *KVStore {
	if key == "" {
		key = config.SaveKey
	}
	return &KVStore{kv: kv, key: key}
}

// PlayerKey returns the save key for a named player. The empty name selects
// config.SaveKey. Other names must be at most 32 ASCII letters, digits, '-'
// or '_', so distinct names always get distinct keys.
func PlayerKey(name string) (string, error) {
	if name == "" {
		return config.SaveKey, nil
	}
	if len(name) > maxPlayerName {
		return "", fmt.Errorf("%w: longer than %d bytes", ErrInvalidPlayer, maxPlayerName)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return "", fmt.Errorf("%w: %q", ErrInvalidPlayer, name)
		}
	}
	return config.SaveKey + "." + name, nil
}

// Load returns the stored record. A missing record yields Defaults and no
// error; a corrupt one yields Defaults and ErrCorruptSave.
func (s *KVStore) Load(ctx context.Context) (SaveData, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return Defaults(), nil
	}
	if err != nil {
		return Defaults(), fmt.Errorf("load save: %w", err)
	}

	var data SaveData
	if err := json.Unmarshal(raw, &data); err != nil {
		return Defaults(), fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	return data.Sanitize(), nil
}

// Save writes the record.
func (s *KVStore) Save(ctx context.Context, data SaveData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode save: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, raw); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}
